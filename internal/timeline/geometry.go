// Package timeline maps calendar dates onto pixel coordinates for a fixed
// visible window at a given display granularity. It is pure and stateless;
// callers may invoke it concurrently.
package timeline

import (
	"math"
	"time"

	"siteline/internal/dates"
	"siteline/internal/domain"
)

// Granularity is the timeline's display unit, controlling the
// date-to-pixel scale factor.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// avgDaysPerMonth is the fixed average month length used for month-scale
// geometry. Calendar months vary; the dashboard intentionally scales by the
// average for visual parity, so this must not be replaced by true
// calendar-month math.
const avgDaysPerMonth = 30.44

// DaysPerCell returns how many calendar days one cell spans.
func (g Granularity) DaysPerCell() float64 {
	switch g {
	case GranularityWeek:
		return 7
	case GranularityMonth:
		return avgDaysPerMonth
	default:
		return 1
	}
}

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// Scale bundles the two knobs that convert between pixels and days.
type Scale struct {
	Granularity Granularity
	CellWidth   float64
}

// DayDelta converts a pixel delta to a whole-day delta, rounded to the
// nearest day. The drag engine uses the same scale as bar geometry so a
// dragged bar lands exactly where it is drawn.
func (s Scale) DayDelta(pixels float64) int {
	if s.CellWidth <= 0 {
		return 0
	}
	return int(math.Round(pixels / s.CellWidth * s.Granularity.DaysPerCell()))
}

// PixelsForDays converts a whole-day offset back to pixels.
func (s Scale) PixelsForDays(days int) float64 {
	return float64(days) / s.Granularity.DaysPerCell() * s.CellWidth
}

// CoordinateX returns the pixel x of a date relative to the window start.
// Dates before the window yield negative coordinates.
func CoordinateX(d, windowStart time.Time, cellWidth float64, g Granularity) float64 {
	offset := float64(dates.DaysBetween(windowStart, d))
	return offset / g.DaysPerCell() * cellWidth
}

// Box is the horizontal geometry of a rendered bar.
type Box struct {
	Left  float64
	Width float64
}

// WindowWidth returns the pixel width of the full visible window.
func WindowWidth(window domain.TimeRange, g Granularity, cellWidth float64) float64 {
	days := float64(dates.DurationDays(window.Start, window.End))
	return days / g.DaysPerCell() * cellWidth
}

// BarGeometry maps an inclusive date range to a clamped bar box inside the
// window. The second return is false when the range is entirely outside the
// window: a hidden bar is distinct from a zero-width one and callers must
// not draw it. Any visible sliver keeps a minimum width of one pixel so
// sub-pixel ranges stay clickable.
func BarGeometry(start, end time.Time, g Granularity, cellWidth float64, window domain.TimeRange) (Box, bool) {
	left := CoordinateX(start, window.Start, cellWidth, g)
	width := float64(dates.DurationDays(start, end)) / g.DaysPerCell() * cellWidth
	right := left + width

	maxX := WindowWidth(window, g, cellWidth)
	clampedLeft := math.Max(left, 0)
	clampedRight := math.Min(right, maxX)
	clampedWidth := clampedRight - clampedLeft
	if clampedWidth <= 0 {
		return Box{}, false
	}
	if clampedWidth < 1 {
		clampedWidth = 1
	}
	return Box{Left: clampedLeft, Width: clampedWidth}, true
}

// WindowFor derives a visible window from the collection's min/max dates
// (plan and actual) padded by padDays on both sides. ok is false for an
// empty collection; the window is owned by the caller, not the engines.
func WindowFor(tasks []*domain.Task, padDays int) (domain.TimeRange, bool) {
	if len(tasks) == 0 {
		return domain.TimeRange{}, false
	}
	min := tasks[0].PlanStart
	max := tasks[0].PlanEnd
	for _, t := range tasks {
		if t.PlanStart.Before(min) {
			min = t.PlanStart
		}
		if t.PlanEnd.After(max) {
			max = t.PlanEnd
		}
		if t.ActualStart != nil && t.ActualStart.Before(min) {
			min = *t.ActualStart
		}
		if t.ActualEnd != nil && t.ActualEnd.After(max) {
			max = *t.ActualEnd
		}
	}
	return domain.TimeRange{
		Start: dates.AddDays(min, -padDays),
		End:   dates.AddDays(max, padDays),
	}, true
}

package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteline/internal/dates"
	"siteline/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func window(start time.Time, days int) domain.TimeRange {
	return domain.TimeRange{Start: start, End: dates.AddDays(start, days-1)}
}

func TestCoordinateX_DayScale(t *testing.T) {
	ws := date(2024, time.January, 1)

	assert.InDelta(t, 0.0, CoordinateX(ws, ws, 20, GranularityDay), 0.001)
	assert.InDelta(t, 100.0, CoordinateX(dates.AddDays(ws, 5), ws, 20, GranularityDay), 0.001)
	assert.InDelta(t, -40.0, CoordinateX(dates.AddDays(ws, -2), ws, 20, GranularityDay), 0.001, "dates before the window go negative")
}

func TestCoordinateX_WeekScale(t *testing.T) {
	ws := date(2024, time.January, 1)

	assert.InDelta(t, 50.0, CoordinateX(dates.AddDays(ws, 7), ws, 50, GranularityWeek), 0.001)
	assert.InDelta(t, 50.0/7*3, CoordinateX(dates.AddDays(ws, 3), ws, 50, GranularityWeek), 0.001)
}

func TestCoordinateX_MonthUsesFixedAverage(t *testing.T) {
	ws := date(2024, time.January, 1)

	// 30.44-day average, not true calendar months.
	got := CoordinateX(dates.AddDays(ws, 61), ws, 60, GranularityMonth)
	assert.InDelta(t, 61.0/30.44*60, got, 0.001)
}

func TestBarGeometry_FullyInsideWindow(t *testing.T) {
	win := window(date(2024, time.January, 1), 30)

	box, visible := BarGeometry(date(2024, time.January, 5), date(2024, time.January, 9), GranularityDay, 10, win)

	require.True(t, visible)
	assert.InDelta(t, 40.0, box.Left, 0.001)
	assert.InDelta(t, 50.0, box.Width, 0.001, "inclusive 5-day range")
	assert.Greater(t, box.Width, 0.0)
}

func TestBarGeometry_FullyOutsideIsHidden(t *testing.T) {
	win := window(date(2024, time.June, 1), 10)

	_, before := BarGeometry(date(2024, time.May, 1), date(2024, time.May, 5), GranularityDay, 10, win)
	_, after := BarGeometry(date(2024, time.July, 1), date(2024, time.July, 5), GranularityDay, 10, win)

	assert.False(t, before, "hidden, not a zero-width box")
	assert.False(t, after)
}

func TestBarGeometry_ClampsPartialOverlap(t *testing.T) {
	win := window(date(2024, time.January, 10), 10) // Jan 10 to 19

	// Jan 5 to 14: five of ten days visible.
	box, visible := BarGeometry(date(2024, time.January, 5), date(2024, time.January, 14), GranularityDay, 10, win)

	require.True(t, visible)
	assert.InDelta(t, 0.0, box.Left, 0.001)
	assert.InDelta(t, 50.0, box.Width, 0.001)
}

func TestBarGeometry_MinimumVisibleWidth(t *testing.T) {
	win := window(date(2024, time.January, 1), 365)

	// A one-day bar at month scale is sub-pixel with a narrow cell.
	box, visible := BarGeometry(date(2024, time.March, 1), date(2024, time.March, 1), GranularityMonth, 10, win)

	require.True(t, visible)
	assert.GreaterOrEqual(t, box.Width, 1.0, "sub-pixel ranges stay clickable")
}

func TestBarGeometry_InvertedRangeHidden(t *testing.T) {
	win := window(date(2024, time.January, 1), 30)

	_, visible := BarGeometry(date(2024, time.January, 9), date(2024, time.January, 5), GranularityDay, 10, win)

	assert.False(t, visible, "degenerate duration clamps to zero and hides")
}

func TestScale_DayDeltaRoundTrip(t *testing.T) {
	for _, g := range []Granularity{GranularityDay, GranularityWeek, GranularityMonth} {
		s := Scale{Granularity: g, CellWidth: 24}
		for _, days := range []int{-10, -1, 0, 1, 3, 14} {
			assert.Equal(t, days, s.DayDelta(s.PixelsForDays(days)), "granularity %s, %d days", g, days)
		}
	}
}

func TestScale_DayDeltaRoundsToNearestDay(t *testing.T) {
	s := Scale{Granularity: GranularityDay, CellWidth: 20}

	assert.Equal(t, 0, s.DayDelta(9))
	assert.Equal(t, 1, s.DayDelta(11))
	assert.Equal(t, -1, s.DayDelta(-11))
}

func TestWindowFor_PadsCollectionExtent(t *testing.T) {
	actualEnd := date(2024, time.February, 20)
	tasks := []*domain.Task{
		{PlanStart: date(2024, time.January, 10), PlanEnd: date(2024, time.January, 20)},
		{PlanStart: date(2024, time.February, 1), PlanEnd: date(2024, time.February, 15), ActualEnd: &actualEnd},
	}

	win, ok := WindowFor(tasks, 3)

	require.True(t, ok)
	assert.True(t, win.Start.Equal(date(2024, time.January, 7)))
	assert.True(t, win.End.Equal(date(2024, time.February, 23)), "actual dates extend the window")
}

func TestWindowFor_Empty(t *testing.T) {
	_, ok := WindowFor(nil, 3)
	assert.False(t, ok)
}

// Package scurve computes the cumulative progress curve (the "S-curve") for
// a task collection over a date window: one planned series and one actual
// series, both as percentages of total project scope. Compute is a pure
// function of its inputs; per-call buffers are local, so concurrent callers
// are safe.
package scurve

import (
	"time"

	"siteline/internal/dates"
	"siteline/internal/domain"
	"siteline/internal/graph"
)

// Result is one computed curve pass.
type Result struct {
	// Points holds one sample per day boundary: boundary k sits at
	// windowStart+k days and carries the cumulative percentages through
	// day k-1. Boundary 0 is the synthetic {windowStart, 0, 0} origin.
	Points []domain.SCurvePoint

	// MaxActualDate is one day past the latest recorded actual date, or
	// today when an in-progress leaf pushes past it. Nil when no leaf has
	// any actual signal. Callers stop rendering the actual series here.
	MaxActualDate *time.Time

	// TotalScope is the summed scope weight across leaves. Zero or
	// negative total means every task contributed nothing and both
	// curves are flat at 0.
	TotalScope float64
}

// Compute builds the plan and actual curves for the window. mode selects
// the scope weight: plan duration in days (physical) or cost (financial).
// now anchors open-ended actual ranges and is expected at local midnight.
func Compute(tasks []*domain.Task, window domain.TimeRange, mode domain.WeightMode, now time.Time) Result {
	idx := graph.NewIndex(tasks)
	leaves := idx.Leaves()

	var totalScope float64
	weights := make(map[string]float64, len(leaves))
	for _, leaf := range leaves {
		w := scopeWeight(leaf, mode)
		weights[leaf.ID] = w
		totalScope += w
	}

	days := dates.DurationDays(window.Start, window.End)
	planDaily := make([]float64, days)
	actualDaily := make([]float64, days)

	for _, leaf := range leaves {
		weightPct := 0.0
		if totalScope > 0 {
			weightPct = weights[leaf.ID] / totalScope * 100
		}
		distributePlan(planDaily, leaf, weightPct, window)
		distributeActual(actualDaily, leaf, weightPct, window, now)
	}

	points := make([]domain.SCurvePoint, 0, days+1)
	points = append(points, domain.SCurvePoint{Date: window.Start})
	var cumPlan, cumActual float64
	for i := 0; i < days; i++ {
		cumPlan += planDaily[i]
		cumActual += actualDaily[i]
		points = append(points, domain.SCurvePoint{
			Date:   dates.AddDays(window.Start, i+1),
			Plan:   capPct(cumPlan),
			Actual: capPct(cumActual),
		})
	}

	return Result{
		Points:        points,
		MaxActualDate: maxActualDate(leaves, now),
		TotalScope:    totalScope,
	}
}

// scopeWeight measures one leaf's contribution to total project scope.
func scopeWeight(t *domain.Task, mode domain.WeightMode) float64 {
	if mode == domain.WeightFinancial {
		if t.Cost == nil || *t.Cost < 0 {
			return 0
		}
		return *t.Cost
	}
	return float64(dates.DurationDays(t.PlanStart, t.PlanEnd))
}

// distributePlan spreads the leaf's weight evenly across its inclusive plan
// days. Days outside the window are dropped, not wrapped or clamped in.
func distributePlan(daily []float64, t *domain.Task, weightPct float64, window domain.TimeRange) {
	if weightPct <= 0 || t.PlanEnd.Before(t.PlanStart) {
		return
	}
	planDays := dates.DurationDays(t.PlanStart, t.PlanEnd)
	if planDays <= 0 {
		return
	}
	perDay := weightPct / float64(planDays)
	base := dates.DaysBetween(window.Start, t.PlanStart)
	for i := 0; i < planDays; i++ {
		off := base + i
		if off < 0 || off >= len(daily) {
			continue
		}
		daily[off] += perDay
	}
}

// distributeActual spreads the earned portion of the leaf's weight across
// its actual days. The anchor falls back from ActualStart to PlanStart and
// the end from ActualEnd to today; an end before the start collapses the
// range to a single day. Days before the window start fold into day 0 so
// early or backfilled actuals still register; days past the window end are
// dropped.
func distributeActual(daily []float64, t *domain.Task, weightPct float64, window domain.TimeRange, now time.Time) {
	if t.Progress <= 0 || weightPct <= 0 || len(daily) == 0 {
		return
	}

	start := t.PlanStart
	if t.ActualStart != nil {
		start = *t.ActualStart
	}
	end := dates.Midnight(now)
	if t.ActualEnd != nil {
		end = *t.ActualEnd
	}
	if end.Before(start) {
		end = start
	}

	actualDays := dates.DurationDays(start, end)
	progress := t.Progress
	if progress > 100 {
		progress = 100
	}
	perDay := weightPct * progress / 100 / float64(actualDays)
	base := dates.DaysBetween(window.Start, start)
	for i := 0; i < actualDays; i++ {
		off := base + i
		if off < 0 {
			off = 0
		}
		if off >= len(daily) {
			continue
		}
		daily[off] += perDay
	}
}

// maxActualDate finds where the actual series ends: one day past the latest
// actual end (a completed leaf without an explicit end falls back to its
// actual start), advanced to today while any leaf is still in progress.
func maxActualDate(leaves []*domain.Task, now time.Time) *time.Time {
	var latest *time.Time
	inProgress := false
	for _, leaf := range leaves {
		if leaf.Status == domain.StatusInProgress {
			inProgress = true
		}
		var candidate *time.Time
		switch {
		case leaf.ActualEnd != nil:
			candidate = leaf.ActualEnd
		case leaf.Status == domain.StatusCompleted && leaf.ActualStart != nil:
			candidate = leaf.ActualStart
		}
		if candidate != nil && (latest == nil || candidate.After(*latest)) {
			latest = candidate
		}
	}

	var result *time.Time
	if latest != nil {
		d := dates.AddDays(*latest, 1)
		result = &d
	}
	if inProgress {
		today := dates.Midnight(now)
		if result == nil || today.After(*result) {
			result = &today
		}
	}
	return result
}

func capPct(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

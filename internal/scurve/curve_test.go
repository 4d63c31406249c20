package scurve

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

var testNow = date(2024, time.June, 1)

func leaf(id string, start, end time.Time, opts ...func(*domain.Task)) *domain.Task {
	t := &domain.Task{
		ID:        id,
		Type:      domain.TypeTask,
		Status:    domain.StatusPlanned,
		PlanStart: start,
		PlanEnd:   end,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func withCost(c float64) func(*domain.Task) {
	return func(t *domain.Task) { t.Cost = &c }
}

func withProgress(p float64) func(*domain.Task) {
	return func(t *domain.Task) { t.Progress = p }
}

func withActual(start, end *time.Time) func(*domain.Task) {
	return func(t *domain.Task) {
		t.ActualStart = start
		t.ActualEnd = end
	}
}

func withStatus(s domain.TaskStatus) func(*domain.Task) {
	return func(t *domain.Task) { t.Status = s }
}

func TestCompute_FinancialLinearRise(t *testing.T) {
	// One leaf, cost 100, window equal to its 10-day plan range:
	// the plan curve rises linearly from 0 to 100.
	start := date(2024, time.January, 1)
	end := date(2024, time.January, 10)
	tasks := []*domain.Task{leaf("a", start, end, withCost(100))}
	window := domain.TimeRange{Start: start, End: end}

	result := Compute(tasks, window, domain.WeightFinancial, testNow)

	assert.InDelta(t, 100.0, result.TotalScope, 0.001)
	require.Len(t, result.Points, 11, "origin plus one boundary per day")
	assert.True(t, result.Points[0].Date.Equal(start))
	assert.Zero(t, result.Points[0].Plan)
	assert.Zero(t, result.Points[0].Actual)
	for k := 1; k <= 10; k++ {
		assert.InDelta(t, float64(k)*10, result.Points[k].Plan, 0.001, "boundary %d", k)
	}
}

func TestCompute_PlanReaches100WhenFullyInWindow(t *testing.T) {
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 7)),
		leaf("b", date(2024, time.March, 5), date(2024, time.March, 20)),
		leaf("c", date(2024, time.March, 10), date(2024, time.March, 10)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	final := result.Points[len(result.Points)-1]
	assert.InDelta(t, 100.0, final.Plan, 0.001)
}

func TestCompute_GroupWeightComesFromLeavesOnly(t *testing.T) {
	parent := "g"
	tasks := []*domain.Task{
		{ID: "g", Type: domain.TypeGroup, PlanStart: date(2024, time.March, 1), PlanEnd: date(2024, time.March, 31)},
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10)),
	}
	tasks[1].ParentTaskID = &parent
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	assert.InDelta(t, 10.0, result.TotalScope, 0.001, "the group's own range must not count")
}

func TestCompute_ZeroScopeIsFlat(t *testing.T) {
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10), withCost(0), withProgress(50)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 10)}

	result := Compute(tasks, window, domain.WeightFinancial, testNow)

	assert.Zero(t, result.TotalScope)
	for _, p := range result.Points {
		assert.Zero(t, p.Plan)
		assert.Zero(t, p.Actual)
	}
}

func TestCompute_PlanDaysOutsideWindowDropped(t *testing.T) {
	// Half the plan range precedes the window; that weight never appears.
	tasks := []*domain.Task{
		leaf("a", date(2024, time.February, 26), date(2024, time.March, 6)), // 10 days, 5 in window
	}
	window := domain.TimeRange{Start: date(2024, time.March, 2), End: date(2024, time.March, 11)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	final := result.Points[len(result.Points)-1]
	assert.InDelta(t, 50.0, final.Plan, 0.001, "out-of-window plan days are dropped, not folded")
}

func TestCompute_EarlyActualsFoldIntoDayZero(t *testing.T) {
	// Actual work entirely before the window start still registers, all of
	// it on day 0.
	as := date(2024, time.February, 1)
	ae := date(2024, time.February, 5)
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10),
			withProgress(100), withActual(&as, &ae)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 10)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	assert.InDelta(t, 100.0, result.Points[1].Actual, 0.001, "backfilled actuals land on day 0")
}

func TestCompute_ActualAnchorsFallBack(t *testing.T) {
	// No actual start: anchor at plan start. No actual end: run to today.
	tasks := []*domain.Task{
		leaf("a", date(2024, time.May, 28), date(2024, time.June, 6), withProgress(50)),
	}
	window := domain.TimeRange{Start: date(2024, time.May, 28), End: date(2024, time.June, 6)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	// testNow is June 1: actual span May 28..Jun 1 = 5 days, 10% each.
	assert.InDelta(t, 10.0, result.Points[1].Actual, 0.001)
	assert.InDelta(t, 50.0, result.Points[5].Actual, 0.001)
	assert.InDelta(t, 50.0, result.Points[10].Actual, 0.001, "nothing accrues past today")
}

func TestCompute_InvertedActualCollapsesToOneDay(t *testing.T) {
	as := date(2024, time.March, 5)
	ae := date(2024, time.March, 2)
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10),
			withProgress(100), withActual(&as, &ae)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 10)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	// Day offset 4 (March 5) receives the full earned amount at once.
	assert.InDelta(t, 0.0, result.Points[4].Actual, 0.001)
	assert.InDelta(t, 100.0, result.Points[5].Actual, 0.001)
}

func TestCompute_CumulativeCappedAt100(t *testing.T) {
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 5), withProgress(150)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 5)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	for _, p := range result.Points {
		assert.LessOrEqual(t, p.Plan, 100.0)
		assert.LessOrEqual(t, p.Actual, 100.0)
	}
}

func TestMaxActualDate_OnePastLatestEnd(t *testing.T) {
	ae1 := date(2024, time.March, 10)
	ae2 := date(2024, time.March, 20)
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10), withActual(nil, &ae1)),
		leaf("b", date(2024, time.March, 11), date(2024, time.March, 20), withActual(nil, &ae2)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	require.NotNil(t, result.MaxActualDate)
	assert.True(t, result.MaxActualDate.Equal(date(2024, time.March, 21)))
}

func TestMaxActualDate_CompletedFallsBackToStart(t *testing.T) {
	as := date(2024, time.March, 15)
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10),
			withStatus(domain.StatusCompleted), withActual(&as, nil)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	require.NotNil(t, result.MaxActualDate)
	assert.True(t, result.MaxActualDate.Equal(date(2024, time.March, 16)))
}

func TestMaxActualDate_InProgressAdvancesToToday(t *testing.T) {
	ae := date(2024, time.March, 10)
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10), withActual(nil, &ae)),
		leaf("b", date(2024, time.March, 11), date(2024, time.March, 20), withStatus(domain.StatusInProgress)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	require.NotNil(t, result.MaxActualDate)
	assert.True(t, result.MaxActualDate.Equal(dates.Midnight(testNow)))
}

func TestMaxActualDate_NoSignal(t *testing.T) {
	tasks := []*domain.Task{
		leaf("a", date(2024, time.March, 1), date(2024, time.March, 10)),
	}
	window := domain.TimeRange{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	result := Compute(tasks, window, domain.WeightPhysical, testNow)

	assert.Nil(t, result.MaxActualDate)
}

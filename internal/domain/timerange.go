package domain

import "time"

// TimeRange bounds a visible or computed window. It is derived by callers
// (typically from the task collection's min/max dates plus padding) and
// passed to the geometry and curve engines, which never own it.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the range, inclusive on both ends.
func (r TimeRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// SCurvePoint is one sample of the cumulative progress series: plan and
// actual percentages in [0,100] at a day boundary.
type SCurvePoint struct {
	Date   time.Time
	Plan   float64
	Actual float64
}

// Package drag is the write path of the schedule engine: an interactive
// date-range edit modeled as an explicit state machine (idle, dragging,
// idle again) driven by discrete start/move/commit events. One Session
// exists per interaction; overlapping sessions are a caller error the
// engine does not defend against. Coalescing move events to the display
// refresh rate is a caller concern and correctness never depends on it.
package drag

import (
	"math"
	"time"

	"siteline/internal/dates"
	"siteline/internal/domain"
	"siteline/internal/graph"
	"siteline/internal/timeline"
)

// Type is the kind of edit being performed on a bar.
type Type string

const (
	TypeMove        Type = "move"
	TypeResizeLeft  Type = "resize-left"
	TypeResizeRight Type = "resize-right"
)

// Bar selects which of a task's ranges is being edited.
type Bar string

const (
	BarPlan   Bar = "plan"
	BarActual Bar = "actual"
)

// Session is one in-flight drag interaction. It is created by Start in the
// dragging state, mutated by Move ticks, and released back to idle by
// Commit or Cancel. Every exit path releases it.
type Session struct {
	task  domain.Task
	typ   Type
	bar   Bar
	scale timeline.Scale

	originX float64

	originalStart time.Time
	originalEnd   time.Time
	currentStart  time.Time
	currentEnd    time.Time

	// descendantIDs is precomputed once at start for plan moves so the
	// per-tick path stays cheap.
	descendantIDs []string

	active bool
}

// Start opens a drag session on the given task's bar. For an actual bar the
// start falls back to the plan start when unset, and an unset end derives
// from the progress-weighted plan duration (progress 0 collapses to the
// start). For a plan move the descendant id set is captured once, not per
// tick.
func Start(idx *graph.Index, taskID string, typ Type, bar Bar, originX float64, scale timeline.Scale) (*Session, error) {
	task, ok := idx.Task(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	s := &Session{
		task:    *task,
		typ:     typ,
		bar:     bar,
		scale:   scale,
		originX: originX,
		active:  true,
	}

	switch bar {
	case BarActual:
		s.originalStart, s.originalEnd = resolveActualRange(task)
	default:
		s.originalStart = task.PlanStart
		s.originalEnd = task.PlanEnd
	}
	s.currentStart = s.originalStart
	s.currentEnd = s.originalEnd

	if bar == BarPlan && typ == TypeMove {
		s.descendantIDs = idx.DescendantIDs(taskID)
	}
	return s, nil
}

// resolveActualRange resolves the bar endpoints for an actual-range edit.
func resolveActualRange(t *domain.Task) (time.Time, time.Time) {
	start := t.PlanStart
	if t.ActualStart != nil {
		start = *t.ActualStart
	}
	if t.ActualEnd != nil && !t.ActualEnd.Before(start) {
		return start, *t.ActualEnd
	}
	if t.Progress > 0 {
		planDays := dates.DurationDays(t.PlanStart, t.PlanEnd)
		offset := int(math.Round(float64(planDays)*t.Progress/100)) - 1
		if offset < 0 {
			offset = 0
		}
		return start, dates.AddDays(start, offset)
	}
	return start, start
}

// Move processes one pointer tick. The pixel delta converts to a whole-day
// delta through the same granularity scale the geometry mapper uses, then
// applies to both endpoints for a move or to the moving endpoint for a
// resize. A resize that would invert the range pins the moving endpoint to
// the other one instead of swapping.
func (s *Session) Move(pointerX float64) error {
	if !s.active {
		return ErrNotDragging
	}
	delta := s.scale.DayDelta(pointerX - s.originX)

	switch s.typ {
	case TypeResizeLeft:
		start := dates.AddDays(s.originalStart, delta)
		if start.After(s.originalEnd) {
			start = s.originalEnd
		}
		s.currentStart = start
		s.currentEnd = s.originalEnd
	case TypeResizeRight:
		end := dates.AddDays(s.originalEnd, delta)
		if end.Before(s.originalStart) {
			end = s.originalStart
		}
		s.currentStart = s.originalStart
		s.currentEnd = end
	default: // move
		s.currentStart = dates.AddDays(s.originalStart, delta)
		s.currentEnd = dates.AddDays(s.originalEnd, delta)
	}
	return nil
}

// CurrentRange returns the session's live endpoints.
func (s *Session) CurrentRange() (time.Time, time.Time) {
	return s.currentStart, s.currentEnd
}

// DayShift returns the live day shift of the bar's start.
func (s *Session) DayShift() int {
	return dates.DaysBetween(s.originalStart, s.currentStart)
}

// Task returns a copy of the task the session was opened on.
func (s *Session) Task() domain.Task {
	return s.task
}

// Bar returns which bar is being edited.
func (s *Session) Bar() Bar {
	return s.bar
}

// Active reports whether the session is still in the dragging state.
func (s *Session) Active() bool {
	return s.active
}

// Cancel releases the session without producing updates.
func (s *Session) Cancel() {
	s.active = false
}

func (s *Session) release() {
	s.active = false
}

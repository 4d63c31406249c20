// Package contract holds the data types crossing the engine boundary
// toward the persistence collaborator.
package contract

import "time"

// TaskUpdate is one task's field changes. Nil fields are untouched. A
// task's hierarchy and dependency changes always travel in one TaskUpdate,
// never split across two.
type TaskUpdate struct {
	TaskID      string
	PlanStart   *time.Time
	PlanEnd     *time.Time
	ActualStart *time.Time
	ActualEnd   *time.Time
	Progress    *float64
}

// UpdateBatch is the merged update set of one commit, keyed by task id
// (each id appears at most once). The batch is applied as a single logical
// unit.
type UpdateBatch []TaskUpdate

// IDs returns the task ids in batch order.
func (b UpdateBatch) IDs() []string {
	ids := make([]string, len(b))
	for i, u := range b {
		ids[i] = u.TaskID
	}
	return ids
}

// Find returns the update for taskID, if present.
func (b UpdateBatch) Find(taskID string) (TaskUpdate, bool) {
	for _, u := range b {
		if u.TaskID == taskID {
			return u, true
		}
	}
	return TaskUpdate{}, false
}

// CommitResult is the outcome of releasing a drag: the batch to persist
// plus signals for the presentation layer.
type CommitResult struct {
	Updates UpdateBatch

	// DayShift is the net calendar-day shift of the dragged bar's start.
	DayShift int

	// CascadedDescendants and CascadedSuccessors count tasks moved by the
	// hierarchy and dependency cascades respectively.
	CascadedDescendants int
	CascadedSuccessors  int

	// PauseForCascade asks the caller to pause visually before applying
	// the batch when a successor cascade occurred. Purely presentational;
	// the batch itself carries no timing requirement.
	PauseForCascade bool
}

// IsNoop reports whether the commit produced no changes.
func (r CommitResult) IsNoop() bool {
	return len(r.Updates) == 0
}

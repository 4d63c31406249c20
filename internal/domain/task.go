package domain

import "time"

// Task is one row of a project schedule. Plan dates are always set;
// actual dates appear once work is recorded. A group task's range and
// progress are derived from its descendant leaves on read, never stored
// authoritatively.
type Task struct {
	ID           string
	ProjectID    string
	ParentTaskID *string
	Title        string
	Type         TaskType
	Status       TaskStatus
	OrderIndex   int

	PlanStart   time.Time
	PlanEnd     time.Time
	ActualStart *time.Time
	ActualEnd   *time.Time

	// Progress is percent complete, 0 to 100.
	Progress float64

	// Cost is the monetary weight used in financial curve mode.
	Cost *float64

	// Predecessors lists task IDs this task must follow. Edges point
	// from predecessor to successor; only successor lookup uses them.
	Predecessors []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGroup reports whether the task is a grouping node.
func (t *Task) IsGroup() bool {
	return t.Type == TypeGroup
}

// HasPredecessor reports whether id appears in the task's predecessor list.
func (t *Task) HasPredecessor(id string) bool {
	for _, p := range t.Predecessors {
		if p == id {
			return true
		}
	}
	return false
}

package testutil

import (
	"time"

	"github.com/google/uuid"

	"siteline/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithContractor(name string) ProjectOption {
	return func(p *domain.Project) {
		p.Contractor = name
	}
}

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskType(tt domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = tt
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentTaskID = &id
	}
}

func WithPlan(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.PlanStart = start
		t.PlanEnd = end
	}
}

func WithActual(start, end *time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ActualStart = start
		t.ActualEnd = end
	}
}

func WithProgress(pct float64) TaskOption {
	return func(t *domain.Task) {
		t.Progress = pct
	}
}

func WithCost(c float64) TaskOption {
	return func(t *domain.Task) {
		t.Cost = &c
	}
}

func WithOrderIndex(i int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = i
	}
}

func WithPredecessors(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.Predecessors = ids
	}
}

// NewTestTask builds a leaf task planned for a ten-day window in June 2024.
// Options override any field.
func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Type:      domain.TypeTask,
		Status:    domain.StatusPlanned,
		PlanStart: time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local),
		PlanEnd:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Day is shorthand for a local-midnight date in tests.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// DayPtr is Day returning a pointer, for nullable date fields.
func DayPtr(year int, month time.Month, day int) *time.Time {
	d := Day(year, month, day)
	return &d
}

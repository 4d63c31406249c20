package service

import (
	"context"

	"siteline/internal/contract"
	"siteline/internal/domain"
	"siteline/internal/importer"
	"siteline/internal/scurve"
	"siteline/internal/timeline"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	AddDependency(ctx context.Context, predecessorID, successorID string) error
	RemoveDependency(ctx context.Context, predecessorID, successorID string) error
}

// ScheduleService executes bar edits: the whole start/move/commit cycle runs
// server side for day-denominated commands, and the resulting batch is
// persisted atomically. The optional mirror callback receives the batch
// before persistence so a live view can update without waiting on the write.
type ScheduleService interface {
	// ShiftTask moves a task's plan bar by whole days and cascades.
	ShiftTask(ctx context.Context, taskID string, days int) (contract.CommitResult, error)

	// ResizeTask moves one plan edge by whole days. Positive days move the
	// edge later. Edge is "left" or "right".
	ResizeTask(ctx context.Context, taskID, edge string, days int) (contract.CommitResult, error)

	// MoveActual shifts a task's actual bar by whole days and re-derives
	// its progress from the plan duration.
	MoveActual(ctx context.Context, taskID string, days int) (contract.CommitResult, error)

	// SetMirror registers a callback invoked with each batch before it is
	// persisted. Persistence failure does not roll the mirror back; the
	// caller refreshes from storage on error.
	SetMirror(fn func(contract.UpdateBatch))
}

// ProgressService computes cumulative progress curves over a project.
type ProgressService interface {
	Curve(ctx context.Context, projectID string, mode domain.WeightMode) (scurve.Result, domain.TimeRange, error)
	CurveInWindow(ctx context.Context, projectID string, mode domain.WeightMode, window domain.TimeRange) (scurve.Result, error)
}

// TimelineService maps a project's schedule onto chart geometry.
type TimelineService interface {
	Timeline(ctx context.Context, projectID string, g timeline.Granularity, cellWidth float64) (*TimelineView, error)
}

// TimelineView is one project's schedule laid out for rendering.
type TimelineView struct {
	Window  domain.TimeRange
	Width   float64
	Rows    []TimelineRow
	Project *domain.Project
}

// TimelineRow pairs a task with its plan and actual bar boxes. A hidden bar
// has the corresponding Visible flag unset.
type TimelineRow struct {
	Task          *domain.Task
	Depth         int
	Plan          timeline.Box
	PlanVisible   bool
	Actual        timeline.Box
	ActualVisible bool
}

// ImportResult holds the outcome of a schedule import.
type ImportResult struct {
	Project         *domain.Project
	TaskCount       int
	DependencyCount int
}

type ImportService interface {
	ImportSchedule(ctx context.Context, filePath string) (*ImportResult, error)
	ImportScheduleFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

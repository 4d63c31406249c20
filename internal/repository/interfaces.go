package repository

import (
	"context"
	"errors"

	"siteline/internal/contract"
	"siteline/internal/domain"
)

// ErrNotFound is the sentinel for lookups that match no row.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// TaskRepo is the engine's task collection accessor and update sink.
// ListByProject returns tasks with predecessor lists populated, ordered by
// order_index then creation, so graph traversals are deterministic.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error

	// ApplyUpdates applies one merged commit batch. Only non-nil fields
	// of each update are written. Callers wanting atomicity run this
	// against a tx-scoped repository.
	ApplyUpdates(ctx context.Context, batch contract.UpdateBatch) error
}

type DependencyRepo interface {
	Create(ctx context.Context, predecessorID, successorID string) error
	Delete(ctx context.Context, predecessorID, successorID string) error
	ListPredecessors(ctx context.Context, taskID string) ([]string, error)
	ListSuccessors(ctx context.Context, taskID string) ([]string, error)
}

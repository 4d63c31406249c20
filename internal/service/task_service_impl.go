package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"siteline/internal/domain"
	"siteline/internal/graph"
	"siteline/internal/repository"
)

type taskService struct {
	tasks repository.TaskRepo
	deps  repository.DependencyRepo
}

func NewTaskService(tasks repository.TaskRepo, deps repository.DependencyRepo) TaskService {
	return &taskService{tasks: tasks, deps: deps}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Type == "" {
		t.Type = domain.TypeTask
	}
	if t.Status == "" {
		t.Status = domain.StatusPlanned
	}
	if t.PlanEnd.Before(t.PlanStart) {
		return fmt.Errorf("plan end %s is before plan start %s",
			t.PlanEnd.Format("2006-01-02"), t.PlanStart.Format("2006-01-02"))
	}
	return s.tasks.Create(ctx, t)
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC()
	return s.tasks.Update(ctx, t)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// AddDependency links predecessor to successor after checking the edge
// would not close a cycle over the existing dependency graph.
func (s *taskService) AddDependency(ctx context.Context, predecessorID, successorID string) error {
	if predecessorID == successorID {
		return fmt.Errorf("task cannot depend on itself")
	}

	pred, err := s.tasks.GetByID(ctx, predecessorID)
	if err != nil {
		return err
	}
	if _, err := s.tasks.GetByID(ctx, successorID); err != nil {
		return err
	}

	all, err := s.tasks.ListByProject(ctx, pred.ProjectID)
	if err != nil {
		return err
	}
	if reachesThroughSuccessors(graph.NewIndex(all), successorID, predecessorID) {
		return fmt.Errorf("dependency %s -> %s would create a cycle", predecessorID, successorID)
	}

	return s.deps.Create(ctx, predecessorID, successorID)
}

func (s *taskService) RemoveDependency(ctx context.Context, predecessorID, successorID string) error {
	return s.deps.Delete(ctx, predecessorID, successorID)
}

// reachesThroughSuccessors reports whether target is reachable from start by
// following successor edges.
func reachesThroughSuccessors(idx *graph.Index, start, target string) bool {
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return true
		}
		for _, succ := range idx.Successors(cur) {
			if !visited[succ.ID] {
				visited[succ.ID] = true
				queue = append(queue, succ.ID)
			}
		}
	}
	return false
}

package service

import (
	"context"
	"fmt"
	"time"

	"siteline/internal/domain"
	"siteline/internal/repository"
	"siteline/internal/scurve"
	"siteline/internal/timeline"
)

type progressService struct {
	tasks    repository.TaskRepo
	observer UseCaseObserver
	now      func() time.Time
}

func NewProgressService(tasks repository.TaskRepo, observers ...UseCaseObserver) ProgressService {
	return &progressService{
		tasks:    tasks,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

// Curve computes the project's S-curve over a window derived from the
// schedule itself, returning the window used.
func (s *progressService) Curve(ctx context.Context, projectID string, mode domain.WeightMode) (scurve.Result, domain.TimeRange, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return scurve.Result{}, domain.TimeRange{}, err
	}
	window, ok := timeline.WindowFor(tasks, 0)
	if !ok {
		return scurve.Result{}, domain.TimeRange{}, fmt.Errorf("project %s has no tasks to chart", projectID)
	}
	result, err := s.compute(ctx, projectID, tasks, mode, window)
	return result, window, err
}

func (s *progressService) CurveInWindow(ctx context.Context, projectID string, mode domain.WeightMode, window domain.TimeRange) (scurve.Result, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return scurve.Result{}, err
	}
	return s.compute(ctx, projectID, tasks, mode, window)
}

func (s *progressService) compute(ctx context.Context, projectID string, tasks []*domain.Task, mode domain.WeightMode, window domain.TimeRange) (result scurve.Result, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "progress-curve",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"project_id": projectID,
				"mode":       string(mode),
				"tasks":      len(tasks),
			},
		})
	}()

	if mode != domain.WeightPhysical && mode != domain.WeightFinancial {
		return scurve.Result{}, fmt.Errorf("unknown weight mode %q", mode)
	}
	return scurve.Compute(tasks, window, mode, s.now()), nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"siteline/internal/contract"
	"siteline/internal/db"
	"siteline/internal/drag"
	"siteline/internal/graph"
	"siteline/internal/repository"
	"siteline/internal/timeline"
)

// dayScale converts whole-day commands into the pixel domain the drag engine
// works in. Any cell width round-trips exactly for whole days.
var dayScale = timeline.Scale{Granularity: timeline.GranularityDay, CellWidth: 20}

type scheduleService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	mirror   func(contract.UpdateBatch)
}

func NewScheduleService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) SetMirror(fn func(contract.UpdateBatch)) {
	s.mirror = fn
}

func (s *scheduleService) ShiftTask(ctx context.Context, taskID string, days int) (contract.CommitResult, error) {
	return s.run(ctx, "shift-task", taskID, drag.TypeMove, drag.BarPlan, days)
}

func (s *scheduleService) ResizeTask(ctx context.Context, taskID, edge string, days int) (contract.CommitResult, error) {
	var typ drag.Type
	switch edge {
	case "left":
		typ = drag.TypeResizeLeft
	case "right":
		typ = drag.TypeResizeRight
	default:
		return contract.CommitResult{}, fmt.Errorf("unknown edge %q (expected left or right)", edge)
	}
	return s.run(ctx, "resize-task", taskID, typ, drag.BarPlan, days)
}

func (s *scheduleService) MoveActual(ctx context.Context, taskID string, days int) (contract.CommitResult, error) {
	return s.run(ctx, "move-actual", taskID, drag.TypeMove, drag.BarActual, days)
}

func (s *scheduleService) run(ctx context.Context, useCase, taskID string, typ drag.Type, bar drag.Bar, days int) (result contract.CommitResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID, "days": days}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      useCase,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return contract.CommitResult{}, err
	}

	all, err := s.tasks.ListByProject(ctx, task.ProjectID)
	if err != nil {
		return contract.CommitResult{}, err
	}
	idx := graph.NewIndex(all)

	session, err := drag.Start(idx, taskID, typ, bar, 0, dayScale)
	if err != nil {
		return contract.CommitResult{}, err
	}
	if err := session.Move(dayScale.PixelsForDays(days)); err != nil {
		return contract.CommitResult{}, err
	}

	result, err = session.Commit(idx)
	if err != nil {
		return contract.CommitResult{}, err
	}
	fields["day_shift"] = result.DayShift
	fields["cascaded"] = result.CascadedDescendants + result.CascadedSuccessors

	if result.IsNoop() {
		return result, nil
	}

	if s.mirror != nil {
		s.mirror(result.Updates)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).ApplyUpdates(ctx, result.Updates)
	})
	if err != nil {
		return contract.CommitResult{}, fmt.Errorf("persisting schedule batch: %w", err)
	}
	return result, nil
}

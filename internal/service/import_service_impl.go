package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"siteline/internal/db"
	"siteline/internal/importer"
	"siteline/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportSchedule(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportScheduleFromSchema(ctx, schema)
}

func (s *importService) ImportScheduleFromSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": schema.Project.Name}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	imported, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	fields["tasks"] = len(imported.Tasks)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		tasks := repository.NewSQLiteTaskRepo(tx)
		deps := repository.NewSQLiteDependencyRepo(tx)

		if err := projects.Create(ctx, imported.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, task := range imported.Tasks {
			if err := tasks.Create(ctx, task); err != nil {
				return fmt.Errorf("creating task %q: %w", task.Title, err)
			}
		}
		for _, link := range imported.Dependencies {
			if err := deps.Create(ctx, link.PredecessorID, link.SuccessorID); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:         imported.Project,
		TaskCount:       len(imported.Tasks),
		DependencyCount: len(imported.Dependencies),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "  - " + e.Error()
	}
	return fmt.Errorf("import file has %d validation error(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}

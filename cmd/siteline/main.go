package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"siteline/internal/cli"
	"siteline/internal/db"
	"siteline/internal/repository"
	"siteline/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.siteline/siteline.db
	dbPath := os.Getenv("SITELINE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".siteline", "siteline.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Service telemetry goes to stderr when requested.
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("SITELINE_LOG") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo),
		Tasks:    service.NewTaskService(taskRepo, depRepo),
		Schedule: service.NewScheduleService(taskRepo, uow, observer),
		Progress: service.NewProgressService(taskRepo, observer),
		Timeline: service.NewTimelineService(projectRepo, taskRepo),
		Import:   service.NewImportService(uow, observer),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

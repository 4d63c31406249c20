package db

import (
	"database/sql"
	"fmt"
)

// migrations are run in order on every open; each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		contractor TEXT NOT NULL DEFAULT '',
		start_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_task_id TEXT,
		title          TEXT NOT NULL,
		type           TEXT NOT NULL DEFAULT 'task'
		               CHECK(type IN ('task','group')),
		status         TEXT NOT NULL DEFAULT 'planned'
		               CHECK(status IN ('planned','in_progress','completed')),
		order_index    INTEGER NOT NULL DEFAULT 0,
		plan_start     TEXT NOT NULL,
		plan_end       TEXT NOT NULL,
		actual_start   TEXT,
		actual_end     TEXT,
		progress       REAL NOT NULL DEFAULT 0,
		cost           REAL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		predecessor_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		created_at     TEXT NOT NULL,
		PRIMARY KEY (predecessor_id, successor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deps_successor ON task_dependencies(successor_id)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

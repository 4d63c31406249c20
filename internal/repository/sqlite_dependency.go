package repository

import (
	"context"
	"fmt"

	"siteline/internal/db"
)

// SQLiteDependencyRepo implements DependencyRepo against a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a dependency repository bound to the given
// connection or transaction.
func NewSQLiteDependencyRepo(dbtx db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: dbtx}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, predecessorID, successorID string) error {
	query := `INSERT INTO task_dependencies (predecessor_id, successor_id, created_at)
		VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, predecessorID, successorID, nowUTC())
	if err != nil {
		return fmt.Errorf("creating dependency %s -> %s: %w", predecessorID, successorID, err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, predecessorID, successorID string) error {
	query := `DELETE FROM task_dependencies WHERE predecessor_id = ? AND successor_id = ?`

	res, err := r.db.ExecContext(ctx, query, predecessorID, successorID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("dependency %s -> %s: %w", predecessorID, successorID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteDependencyRepo) ListPredecessors(ctx context.Context, taskID string) ([]string, error) {
	return r.listEdges(ctx,
		`SELECT predecessor_id FROM task_dependencies WHERE successor_id = ? ORDER BY predecessor_id`,
		taskID)
}

func (r *SQLiteDependencyRepo) ListSuccessors(ctx context.Context, taskID string) ([]string, error) {
	return r.listEdges(ctx,
		`SELECT successor_id FROM task_dependencies WHERE predecessor_id = ? ORDER BY successor_id`,
		taskID)
}

func (r *SQLiteDependencyRepo) listEdges(ctx context.Context, query, taskID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"siteline/internal/contract"
	"siteline/internal/db"
	"siteline/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo against a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a task repository bound to the given connection
// or transaction.
func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

const taskColumns = `id, project_id, parent_task_id, title, type, status, order_index,
	plan_start, plan_end, actual_start, actual_end, progress, cost, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := nowUTC()
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.ProjectID, nullableStrToValue(t.ParentTaskID), t.Title,
		string(t.Type), string(t.Status), t.OrderIndex,
		t.PlanStart.Format(dateLayout), t.PlanEnd.Format(dateLayout),
		nullableDateToString(t.ActualStart), nullableDateToString(t.ActualEnd),
		t.Progress, nullableFloatToValue(t.Cost), now, now)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}

	preds, err := r.predecessorsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	t.Predecessors = preds[id]
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE project_id = ? ORDER BY order_index, created_at, id`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	var ids []string
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	preds, err := r.predecessorsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.Predecessors = preds[t.ID]
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_task_id = ?, title = ?, type = ?, status = ?,
		order_index = ?, plan_start = ?, plan_end = ?, actual_start = ?, actual_end = ?,
		progress = ?, cost = ?, updated_at = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		nullableStrToValue(t.ParentTaskID), t.Title, string(t.Type), string(t.Status),
		t.OrderIndex, t.PlanStart.Format(dateLayout), t.PlanEnd.Format(dateLayout),
		nullableDateToString(t.ActualStart), nullableDateToString(t.ActualEnd),
		t.Progress, nullableFloatToValue(t.Cost), nowUTC(), t.ID)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// ApplyUpdates writes each update's non-nil fields. The batch arrives
// pre-merged, one entry per task, so each task is touched exactly once.
func (r *SQLiteTaskRepo) ApplyUpdates(ctx context.Context, batch contract.UpdateBatch) error {
	for _, u := range batch {
		var sets []string
		var args []interface{}

		if u.PlanStart != nil {
			sets = append(sets, "plan_start = ?")
			args = append(args, u.PlanStart.Format(dateLayout))
		}
		if u.PlanEnd != nil {
			sets = append(sets, "plan_end = ?")
			args = append(args, u.PlanEnd.Format(dateLayout))
		}
		if u.ActualStart != nil {
			sets = append(sets, "actual_start = ?")
			args = append(args, u.ActualStart.Format(dateLayout))
		}
		if u.ActualEnd != nil {
			sets = append(sets, "actual_end = ?")
			args = append(args, u.ActualEnd.Format(dateLayout))
		}
		if u.Progress != nil {
			sets = append(sets, "progress = ?")
			args = append(args, *u.Progress)
		}
		if len(sets) == 0 {
			continue
		}

		sets = append(sets, "updated_at = ?")
		args = append(args, nowUTC(), u.TaskID)

		query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("applying update for task %s: %w", u.TaskID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("task %s: %w", u.TaskID, ErrNotFound)
		}
	}
	return nil
}

// predecessorsFor loads dependency edges for the given task ids in one query.
func (r *SQLiteTaskRepo) predecessorsFor(ctx context.Context, ids []string) (map[string][]string, error) {
	result := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT successor_id, predecessor_id FROM task_dependencies
		WHERE successor_id IN (` + placeholders + `) ORDER BY predecessor_id`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var successor, predecessor string
		if err := rows.Scan(&successor, &predecessor); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		result[successor] = append(result[successor], predecessor)
	}
	return result, rows.Err()
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t            domain.Task
		parentTaskID sql.NullString
		planStart    string
		planEnd      string
		actualStart  sql.NullString
		actualEnd    sql.NullString
		cost         sql.NullFloat64
		typ          string
		status       string
		createdAt    string
		updatedAt    string
	)
	err := row.Scan(&t.ID, &t.ProjectID, &parentTaskID, &t.Title, &typ, &status,
		&t.OrderIndex, &planStart, &planEnd, &actualStart, &actualEnd,
		&t.Progress, &cost, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if parentTaskID.Valid {
		t.ParentTaskID = &parentTaskID.String
	}
	t.Type = domain.TaskType(typ)
	t.Status = domain.TaskStatus(status)
	t.PlanStart = parseDate(planStart)
	t.PlanEnd = parseDate(planEnd)
	t.ActualStart = parseNullableDate(actualStart)
	t.ActualEnd = parseNullableDate(actualEnd)
	if cost.Valid {
		t.Cost = &cost.Float64
	}
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}

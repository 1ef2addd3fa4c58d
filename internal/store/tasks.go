// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/task-tracker/pkg/types"
)

const taskColumns = `id, project_id, title, description, priority, status, role, created_at, updated_at`

// TaskFilter selects tasks for ListTasks and exports. Zero fields do not filter.
type TaskFilter struct {
	// ProjectID restricts results to one project.
	ProjectID int64

	// Status restricts results to one workflow step.
	Status types.Status

	// Priority restricts results to one priority.
	Priority types.Priority

	// Query matches a substring of the title or description, case-insensitively.
	Query string

	// Limit caps the result count. Zero uses the store's MaxResults;
	// a negative value disables the cap.
	Limit int
}

// ImportSummary reports the outcome of a bulk import.
type ImportSummary struct {
	ProjectID int64   `json:"project_id" yaml:"project_id"`
	Imported  int     `json:"imported" yaml:"imported"`
	IDs       []int64 `json:"ids" yaml:"ids"`
}

// StatusCounts holds the number of tasks in each workflow step.
type StatusCounts struct {
	Todo       int `json:"todo" yaml:"todo"`
	InProgress int `json:"in_progress" yaml:"in_progress"`
	Completed  int `json:"completed" yaml:"completed"`
}

// Total returns the number of tasks counted.
func (c StatusCounts) Total() int {
	return c.Todo + c.InProgress + c.Completed
}

func scanTask(row rowScanner) (types.StoredTask, error) {
	var (
		t                types.StoredTask
		priority, status string
		role             sql.NullString
		created, updated string
	)
	if err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description,
		&priority, &status, &role, &created, &updated,
	); err != nil {
		return types.StoredTask{}, err
	}
	t.Priority = types.Priority(priority)
	t.Status = types.Status(status)
	if role.Valid {
		t.Role = types.RolePtr(role.String)
	}
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(updated)
	return t, nil
}

func nullableRole(t types.Task) sql.NullString {
	role := strings.TrimSpace(t.RoleName())
	return sql.NullString{String: role, Valid: role != ""}
}

// AddTask inserts one task into a project.
func (s *Store) AddTask(ctx context.Context, projectID int64, task types.Task) (types.StoredTask, error) {
	summary, err := s.ImportTasks(ctx, projectID, []types.Task{task})
	if err != nil {
		return types.StoredTask{}, err
	}
	return s.GetTask(ctx, summary.IDs[0])
}

// ImportTasks inserts tasks into a project in one transaction, preserving
// input order. Either every task is stored or none is.
func (s *Store) ImportTasks(ctx context.Context, projectID int64, tasks []types.Task) (ImportSummary, error) {
	summary := ImportSummary{ProjectID: projectID}

	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return summary, fmt.Errorf("task %d: %w", i+1, err)
		}
	}

	if _, err := s.GetProject(ctx, projectID); err != nil {
		return summary, err
	}
	if len(tasks) == 0 {
		return summary, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tasks (project_id, title, description, priority, status, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := formatTime(s.now())
	ids := make([]int64, 0, len(tasks))
	for i, t := range tasks {
		res, err := stmt.ExecContext(ctx,
			projectID, strings.TrimSpace(t.Title), t.Description,
			string(t.Priority), string(t.Status), nullableRole(t), now, now,
		)
		if err != nil {
			return summary, fmt.Errorf("inserting task %d: %w", i+1, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return summary, fmt.Errorf("reading task id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	summary.Imported = len(ids)
	summary.IDs = ids
	s.log.Info("tasks imported", "project_id", projectID, "count", len(ids))
	return summary, nil
}

// GetTask returns the task with the given ID.
func (s *Store) GetTask(ctx context.Context, id int64) (types.StoredTask, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.StoredTask{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return types.StoredTask{}, fmt.Errorf("looking up task: %w", err)
	}
	return t, nil
}

// ListTasks returns tasks matching f in creation order.
func (s *Store) ListTasks(ctx context.Context, f TaskFilter) ([]types.StoredTask, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`)

	if f.ProjectID != 0 {
		qb.WriteString(` AND project_id = ?`)
		args = append(args, f.ProjectID)
	}
	if f.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(f.Status))
	}
	if f.Priority != "" {
		qb.WriteString(` AND priority = ?`)
		args = append(args, string(f.Priority))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		qb.WriteString(` AND (lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	qb.WriteString(` ORDER BY created_at, id`)

	limit := f.Limit
	if limit == 0 {
		limit = s.maxResults
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.StoredTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// UpdateTask replaces the editable fields of a task.
func (s *Store) UpdateTask(ctx context.Context, id int64, task types.Task) (types.StoredTask, error) {
	if err := task.Validate(); err != nil {
		return types.StoredTask{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?, role = ?, updated_at = ?
		 WHERE id = ?`,
		strings.TrimSpace(task.Title), task.Description, string(task.Priority),
		string(task.Status), nullableRole(task), formatTime(s.now()), id,
	)
	if err != nil {
		return types.StoredTask{}, fmt.Errorf("updating task: %w", err)
	}
	if err := expectOneRow(res, "task", id); err != nil {
		return types.StoredTask{}, err
	}
	return s.GetTask(ctx, id)
}

// UpdateTaskStatus moves a task to any workflow step.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status types.Status) (types.StoredTask, error) {
	if !status.Valid() {
		return types.StoredTask{}, fmt.Errorf("%w: %q", types.ErrInvalidStatus, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(s.now()), id,
	)
	if err != nil {
		return types.StoredTask{}, fmt.Errorf("updating task status: %w", err)
	}
	if err := expectOneRow(res, "task", id); err != nil {
		return types.StoredTask{}, err
	}
	s.log.Debug("task status updated", "id", id, "status", status)
	return s.GetTask(ctx, id)
}

// AdvanceTask moves a task to the next workflow step.
func (s *Store) AdvanceTask(ctx context.Context, id int64) (types.StoredTask, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return types.StoredTask{}, err
	}
	next, ok := t.Status.Next()
	if !ok {
		return types.StoredTask{}, fmt.Errorf("task %d: %w", id, ErrWorkflowDone)
	}
	return s.UpdateTaskStatus(ctx, id, next)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectOneRow(res, "task", id)
}

// Stats counts a project's tasks per workflow step. A zero projectID counts
// every task.
func (s *Store) Stats(ctx context.Context, projectID int64) (StatusCounts, error) {
	query := `SELECT status, count(*) FROM tasks`
	var args []any
	if projectID != 0 {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("counting tasks: %w", err)
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return StatusCounts{}, fmt.Errorf("scanning count: %w", err)
		}
		switch types.Status(status) {
		case types.StatusTodo:
			counts.Todo = n
		case types.StatusInProgress:
			counts.InProgress = n
		case types.StatusCompleted:
			counts.Completed = n
		}
	}
	return counts, rows.Err()
}

func expectOneRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

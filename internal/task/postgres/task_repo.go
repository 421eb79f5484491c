// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/taskforge/taskforge/internal/task"
)

// TaskRepository implements task.TaskRepository using PostgreSQL.
type TaskRepository struct {
	pool poolIface
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool poolIface) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create stores a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, due_date, is_completed, project_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		t.ID.String(),
		t.Title,
		t.Description,
		t.DueDate,
		t.IsCompleted,
		t.ProjectID.String(),
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_CREATE_FAILED").
			With("operation", "insert task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetInProject retrieves a task by ID scoped to a project in one query.
func (r *TaskRepository) GetInProject(ctx context.Context, id, projectID ulid.ULID) (*task.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, due_date, is_completed, project_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND project_id = $2
	`, id.String(), projectID.String())

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TASK_GET_FAILED").
			With("operation", "get task in project").
			With("id", id.String()).
			Wrap(err)
	}
	return t, nil
}

// ListByProject returns one page of the project's tasks ordered by
// creation time, ID as tiebreaker.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID ulid.ULID, page, size int) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, due_date, is_completed, project_id, created_at, updated_at
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, projectID.String(), size, page*size)
	if err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// Search returns tasks whose title or description contains the term,
// case-insensitively.
func (r *TaskRepository) Search(ctx context.Context, projectID ulid.ULID, term string, page, size int) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, due_date, is_completed, project_id, created_at, updated_at
		FROM tasks
		WHERE project_id = $1
		  AND (title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`, projectID.String(), term, size, page*size)
	if err != nil {
		return nil, oops.Code("TASK_SEARCH_FAILED").
			With("operation", "search tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// CountByProject returns the project's total task count.
func (r *TaskRepository) CountByProject(ctx context.Context, projectID ulid.ULID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks WHERE project_id = $1
	`, projectID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("TASK_COUNT_FAILED").
			With("operation", "count tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return count, nil
}

// CountMatching returns the total number of tasks a Search with the same
// term would yield.
func (r *TaskRepository) CountMatching(ctx context.Context, projectID ulid.ULID, term string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE project_id = $1
		  AND (title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
	`, projectID.String(), term).Scan(&count)
	if err != nil {
		return 0, oops.Code("TASK_COUNT_FAILED").
			With("operation", "count matching tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return count, nil
}

// CountCompleted returns the project's completed task count.
func (r *TaskRepository) CountCompleted(ctx context.Context, projectID ulid.ULID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks WHERE project_id = $1 AND is_completed
	`, projectID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("TASK_COUNT_FAILED").
			With("operation", "count completed tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return count, nil
}

// Update replaces a task's mutable fields, scoped to its project.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tasks SET title = $3, description = $4, due_date = $5, is_completed = $6, updated_at = $7
		WHERE id = $1 AND project_id = $2
	`,
		t.ID.String(),
		t.ProjectID.String(),
		t.Title,
		t.Description,
		t.DueDate,
		t.IsCompleted,
		t.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("id", t.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", t.ID.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// Delete removes a task scoped to its project.
func (r *TaskRepository) Delete(ctx context.Context, id, projectID ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND project_id = $2
	`, id.String(), projectID.String())
	if err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TASK_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// collectTasks drains rows into a slice.
func collectTasks(rows pgx.Rows) ([]*task.Task, error) {
	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, oops.Code("TASK_SCAN_FAILED").
				With("operation", "scan task row").
				Wrap(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TASK_LIST_FAILED").
			With("operation", "iterate tasks").
			Wrap(err)
	}
	return tasks, nil
}

// scanTask scans a single row into a Task.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		idStr       string
		title       string
		description string
		dueDate     *time.Time
		isCompleted bool
		projectStr  string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &title, &description, &dueDate, &isCompleted, &projectStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TASK_SCAN_FAILED").
			With("operation", "scan task").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	projectID, err := ulid.Parse(projectStr)
	if err != nil {
		return nil, oops.Code("TASK_INVALID_PROJECT_ID").
			With("project_id", projectStr).
			Wrap(err)
	}

	return &task.Task{
		ID:          id,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		IsCompleted: isCompleted,
		ProjectID:   projectID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ task.TaskRepository = (*TaskRepository)(nil)

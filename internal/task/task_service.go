// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TaskService provides task operations. Every operation resolves the
// containing project through the Gate before touching any task.
type TaskService struct {
	tasks    TaskRepository
	gate     *Gate
	progress *Aggregator
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks TaskRepository, gate *Gate, progress *Aggregator) (*TaskService, error) {
	if tasks == nil {
		return nil, oops.Errorf("task repository is required")
	}
	if gate == nil {
		return nil, oops.Errorf("ownership gate is required")
	}
	if progress == nil {
		return nil, oops.Errorf("progress aggregator is required")
	}
	return &TaskService{tasks: tasks, gate: gate, progress: progress}, nil
}

// Create persists a new task in a project owned by the principal.
func (s *TaskService) Create(ctx context.Context, ownerID, projectID ulid.ULID, title, description string, dueDate *time.Time) (*Task, error) {
	if _, err := s.gate.ResolveProject(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	t, err := NewTask(projectID, title, description, dueDate)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, oops.Code("TASK_CREATE_FAILED").
			With("operation", "create task").
			With("task_id", t.ID.String()).
			Wrap(err)
	}
	return t, nil
}

// List returns one page of a project's tasks, ordered by creation time.
func (s *TaskService) List(ctx context.Context, ownerID, projectID ulid.ULID, page, size int) (Page[*Task], error) {
	if _, err := s.gate.ResolveProject(ctx, projectID, ownerID); err != nil {
		return Page[*Task]{}, err
	}

	items, err := s.tasks.ListByProject(ctx, projectID, page, size)
	if err != nil {
		return Page[*Task]{}, oops.Code("TASK_LIST_FAILED").
			With("operation", "list tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	total, err := s.tasks.CountByProject(ctx, projectID)
	if err != nil {
		return Page[*Task]{}, oops.Code("TASK_COUNT_FAILED").
			With("operation", "count tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return NewPage(items, page, size, total), nil
}

// Search returns one page of a project's tasks whose title or description
// contains the term, case-insensitively.
func (s *TaskService) Search(ctx context.Context, ownerID, projectID ulid.ULID, term string, page, size int) (Page[*Task], error) {
	if _, err := s.gate.ResolveProject(ctx, projectID, ownerID); err != nil {
		return Page[*Task]{}, err
	}

	items, err := s.tasks.Search(ctx, projectID, term, page, size)
	if err != nil {
		return Page[*Task]{}, oops.Code("TASK_SEARCH_FAILED").
			With("operation", "search tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	total, err := s.tasks.CountMatching(ctx, projectID, term)
	if err != nil {
		return Page[*Task]{}, oops.Code("TASK_SEARCH_COUNT_FAILED").
			With("operation", "count matching tasks").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return NewPage(items, page, size, total), nil
}

// Get retrieves a task in a project owned by the principal.
func (s *TaskService) Get(ctx context.Context, ownerID, projectID, taskID ulid.ULID) (*Task, error) {
	return s.gate.ResolveTask(ctx, taskID, projectID, ownerID)
}

// Update replaces a task's title, description, and due date.
func (s *TaskService) Update(ctx context.Context, ownerID, projectID, taskID ulid.ULID, title, description string, dueDate *time.Time) (*Task, error) {
	t, err := s.gate.ResolveTask(ctx, taskID, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	t.Title = title
	t.Description = description
	t.DueDate = dueDate
	t.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, oops.Code("TASK_UPDATE_FAILED").
			With("operation", "update task").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	return t, nil
}

// Complete marks a task completed. Completing an already-completed task is
// a no-op success.
func (s *TaskService) Complete(ctx context.Context, ownerID, projectID, taskID ulid.ULID) (*Task, error) {
	t, err := s.gate.ResolveTask(ctx, taskID, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if t.IsCompleted {
		return t, nil
	}

	t.IsCompleted = true
	t.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, oops.Code("TASK_COMPLETE_FAILED").
			With("operation", "complete task").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	return t, nil
}

// Delete removes a task from a project owned by the principal.
func (s *TaskService) Delete(ctx context.Context, ownerID, projectID, taskID ulid.ULID) error {
	if _, err := s.gate.ResolveTask(ctx, taskID, projectID, ownerID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID, projectID); err != nil {
		return oops.Code("TASK_DELETE_FAILED").
			With("operation", "delete task").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	return nil
}

// Progress reports completion statistics for a project owned by the
// principal.
func (s *TaskService) Progress(ctx context.Context, ownerID, projectID ulid.ULID) (*Progress, error) {
	return s.progress.Progress(ctx, projectID, ownerID)
}

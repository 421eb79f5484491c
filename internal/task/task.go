// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Task is a unit of work inside a project. DueDate is an optional calendar
// date; a nil value means no due date.
type Task struct {
	ID          ulid.ULID
	Title       string
	Description string
	DueDate     *time.Time
	IsCompleted bool
	ProjectID   ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask creates a validated Task in the given project. New tasks always
// start incomplete.
func NewTask(projectID ulid.ULID, title, description string, dueDate *time.Time) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Task{
		ID:          ulid.Make(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		IsCompleted: false,
		ProjectID:   projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TaskRepository manages task persistence. Lookups are scoped to the
// containing project; ownership of the project itself is the Gate's job.
type TaskRepository interface {
	// Create stores a new task.
	Create(ctx context.Context, t *Task) error

	// GetInProject retrieves a task by ID scoped to a project.
	// Returns ErrNotFound when absent or in a different project.
	GetInProject(ctx context.Context, id, projectID ulid.ULID) (*Task, error)

	// ListByProject returns the project's tasks ordered by creation time,
	// with 0-based page index.
	ListByProject(ctx context.Context, projectID ulid.ULID, page, size int) ([]*Task, error)

	// Search returns tasks whose title or description contains the term,
	// case-insensitively, ordered by creation time.
	Search(ctx context.Context, projectID ulid.ULID, term string, page, size int) ([]*Task, error)

	// CountByProject returns the project's total task count.
	CountByProject(ctx context.Context, projectID ulid.ULID) (int64, error)

	// CountMatching returns the number of tasks a Search with the same
	// term would yield in total.
	CountMatching(ctx context.Context, projectID ulid.ULID, term string) (int64, error)

	// CountCompleted returns the project's completed task count.
	CountCompleted(ctx context.Context, projectID ulid.ULID) (int64, error)

	// Update replaces a task's mutable fields (title, description, due
	// date, completion flag, updated-at), scoped to its project.
	Update(ctx context.Context, t *Task) error

	// Delete removes a task scoped to its project.
	Delete(ctx context.Context, id, projectID ulid.ULID) error
}

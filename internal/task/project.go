// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Project is a user-owned container for tasks. OwnerID is set at creation
// and never changes.
type Project struct {
	ID          ulid.ULID
	Title       string
	Description string
	OwnerID     ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProject creates a validated Project owned by the given user.
func NewProject(ownerID ulid.ULID, title, description string) (*Project, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Project{
		ID:          ulid.Make(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ProjectRepository manages project persistence. Lookups that take an
// owner ID are ownership-scoped: they match on both IDs in one query.
type ProjectRepository interface {
	// Create stores a new project.
	Create(ctx context.Context, project *Project) error

	// GetOwned retrieves a project by ID scoped to its owner.
	// Returns ErrNotFound when the project is absent or owned by
	// someone else.
	GetOwned(ctx context.Context, id, ownerID ulid.ULID) (*Project, error)

	// ListByOwner returns the owner's projects ordered by creation time,
	// with 0-based page index.
	ListByOwner(ctx context.Context, ownerID ulid.ULID, page, size int) ([]*Project, error)

	// CountByOwner returns the owner's total project count.
	CountByOwner(ctx context.Context, ownerID ulid.ULID) (int64, error)

	// Update replaces a project's title, description, and updated-at
	// timestamp, scoped to its owner.
	Update(ctx context.Context, project *Project) error

	// Delete removes a project scoped to its owner. Tasks in the project
	// are removed with it; a task cannot outlive its project.
	Delete(ctx context.Context, id, ownerID ulid.ULID) error
}

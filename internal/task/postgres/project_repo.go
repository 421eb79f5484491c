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

// ProjectRepository implements task.ProjectRepository using PostgreSQL.
type ProjectRepository struct {
	pool poolIface
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool poolIface) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create stores a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *task.Project) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO projects (id, title, description, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		project.ID.String(),
		project.Title,
		project.Description,
		project.OwnerID.String(),
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return oops.Code("PROJECT_CREATE_FAILED").
			With("operation", "insert project").
			With("id", project.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetOwned retrieves a project by ID and owner in a single query, so a
// missing project and a foreign one are indistinguishable.
func (r *ProjectRepository) GetOwned(ctx context.Context, id, ownerID ulid.ULID) (*task.Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, user_id, created_at, updated_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`, id.String(), ownerID.String())

	project, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROJECT_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROJECT_GET_FAILED").
			With("operation", "get owned project").
			With("id", id.String()).
			Wrap(err)
	}
	return project, nil
}

// ListByOwner returns one page of the owner's projects ordered by creation
// time, ID as tiebreaker.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID ulid.ULID, page, size int) ([]*task.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, user_id, created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, ownerID.String(), size, page*size)
	if err != nil {
		return nil, oops.Code("PROJECT_LIST_FAILED").
			With("operation", "list projects").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var projects []*task.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, oops.Code("PROJECT_LIST_FAILED").
				With("operation", "scan project row").
				Wrap(err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROJECT_LIST_FAILED").
			With("operation", "iterate projects").
			Wrap(err)
	}
	return projects, nil
}

// CountByOwner returns the owner's total project count.
func (r *ProjectRepository) CountByOwner(ctx context.Context, ownerID ulid.ULID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects WHERE user_id = $1
	`, ownerID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("PROJECT_COUNT_FAILED").
			With("operation", "count projects").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	return count, nil
}

// Update replaces a project's title and description, scoped to its owner.
func (r *ProjectRepository) Update(ctx context.Context, project *task.Project) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE projects SET title = $3, description = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
	`,
		project.ID.String(),
		project.OwnerID.String(),
		project.Title,
		project.Description,
		project.UpdatedAt,
	)
	if err != nil {
		return oops.Code("PROJECT_UPDATE_FAILED").
			With("operation", "update project").
			With("id", project.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROJECT_NOT_FOUND").
			With("id", project.ID.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// Delete removes a project scoped to its owner. The tasks foreign key is
// declared ON DELETE CASCADE, so the project's tasks go with it.
func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM projects WHERE id = $1 AND user_id = $2
	`, id.String(), ownerID.String())
	if err != nil {
		return oops.Code("PROJECT_DELETE_FAILED").
			With("operation", "delete project").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROJECT_NOT_FOUND").
			With("id", id.String()).
			Wrap(task.ErrNotFound)
	}
	return nil
}

// scanProject scans a single row into a Project.
// Callers are responsible for handling pgx.ErrNoRows.
func scanProject(row pgx.Row) (*task.Project, error) {
	var (
		idStr       string
		title       string
		description string
		ownerStr    string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &title, &description, &ownerStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PROJECT_SCAN_FAILED").
			With("operation", "scan project").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PROJECT_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	ownerID, err := ulid.Parse(ownerStr)
	if err != nil {
		return nil, oops.Code("PROJECT_INVALID_OWNER_ID").
			With("user_id", ownerStr).
			Wrap(err)
	}

	return &task.Project{
		ID:          id,
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Compile-time interface check.
var _ task.ProjectRepository = (*ProjectRepository)(nil)

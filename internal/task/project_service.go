// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ProjectService provides project operations scoped to an owner.
type ProjectService struct {
	projects ProjectRepository
	gate     *Gate
}

// NewProjectService creates a ProjectService.
func NewProjectService(projects ProjectRepository, gate *Gate) (*ProjectService, error) {
	if projects == nil {
		return nil, oops.Errorf("project repository is required")
	}
	if gate == nil {
		return nil, oops.Errorf("ownership gate is required")
	}
	return &ProjectService{projects: projects, gate: gate}, nil
}

// Create persists a new project owned by the principal.
func (s *ProjectService) Create(ctx context.Context, ownerID ulid.ULID, title, description string) (*Project, error) {
	project, err := NewProject(ownerID, title, description)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, oops.Code("PROJECT_CREATE_FAILED").
			With("operation", "create project").
			With("project_id", project.ID.String()).
			Wrap(err)
	}
	return project, nil
}

// List returns one page of the principal's projects, ordered by creation
// time.
func (s *ProjectService) List(ctx context.Context, ownerID ulid.ULID, page, size int) (Page[*Project], error) {
	items, err := s.projects.ListByOwner(ctx, ownerID, page, size)
	if err != nil {
		return Page[*Project]{}, oops.Code("PROJECT_LIST_FAILED").
			With("operation", "list projects").
			Wrap(err)
	}
	total, err := s.projects.CountByOwner(ctx, ownerID)
	if err != nil {
		return Page[*Project]{}, oops.Code("PROJECT_COUNT_FAILED").
			With("operation", "count projects").
			Wrap(err)
	}
	return NewPage(items, page, size, total), nil
}

// Get retrieves a project owned by the principal.
func (s *ProjectService) Get(ctx context.Context, projectID, ownerID ulid.ULID) (*Project, error) {
	return s.gate.ResolveProject(ctx, projectID, ownerID)
}

// Update replaces the title and description of a project owned by the
// principal. The owner itself is immutable.
func (s *ProjectService) Update(ctx context.Context, projectID, ownerID ulid.ULID, title, description string) (*Project, error) {
	project, err := s.gate.ResolveProject(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	project.Title = title
	project.Description = description
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, oops.Code("PROJECT_UPDATE_FAILED").
			With("operation", "update project").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return project, nil
}

// Delete removes a project owned by the principal along with all of its
// tasks.
func (s *ProjectService) Delete(ctx context.Context, projectID, ownerID ulid.ULID) error {
	if _, err := s.gate.ResolveProject(ctx, projectID, ownerID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID, ownerID); err != nil {
		return oops.Code("PROJECT_DELETE_FAILED").
			With("operation", "delete project").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return nil
}

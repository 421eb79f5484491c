// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Gate resolves resources while enforcing the ownership chain
// (user -> project -> task). Every service operation goes through the Gate
// before reading or mutating anything.
type Gate struct {
	projects ProjectRepository
	tasks    TaskRepository
}

// NewGate creates a Gate.
func NewGate(projects ProjectRepository, tasks TaskRepository) (*Gate, error) {
	if projects == nil {
		return nil, oops.Errorf("project repository is required")
	}
	if tasks == nil {
		return nil, oops.Errorf("task repository is required")
	}
	return &Gate{projects: projects, tasks: tasks}, nil
}

// ResolveProject fetches a project by ID scoped to its owner in a single
// query. Absence and ownership mismatch both yield ErrNotFound.
func (g *Gate) ResolveProject(ctx context.Context, projectID, ownerID ulid.ULID) (*Project, error) {
	project, err := g.projects.GetOwned(ctx, projectID, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("PROJECT_NOT_FOUND").
				With("project_id", projectID.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("PROJECT_RESOLVE_FAILED").
			With("operation", "get owned project").
			With("project_id", projectID.String()).
			Wrap(err)
	}
	return project, nil
}

// ResolveTask resolves the project first (ownership-scoped), then the task
// scoped to that project. Either miss yields ErrNotFound.
func (g *Gate) ResolveTask(ctx context.Context, taskID, projectID, ownerID ulid.ULID) (*Task, error) {
	if _, err := g.ResolveProject(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	t, err := g.tasks.GetInProject(ctx, taskID, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TASK_NOT_FOUND").
				With("task_id", taskID.String()).
				With("project_id", projectID.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("TASK_RESOLVE_FAILED").
			With("operation", "get task in project").
			With("task_id", taskID.String()).
			Wrap(err)
	}
	return t, nil
}

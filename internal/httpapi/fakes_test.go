// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi_test

import (
	"context"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/task"
)

// memUserRepo is an in-memory auth.UserRepository for handler tests.
type memUserRepo struct {
	users map[ulid.ULID]*auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[ulid.ULID]*auth.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *auth.User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return auth.ErrEmailTaken
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

// memProjectRepo is an in-memory task.ProjectRepository.
type memProjectRepo struct {
	projects map[ulid.ULID]*task.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[ulid.ULID]*task.Project)}
}

func (r *memProjectRepo) Create(_ context.Context, project *task.Project) error {
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *memProjectRepo) GetOwned(_ context.Context, id, ownerID ulid.ULID) (*task.Project, error) {
	project, ok := r.projects[id]
	if !ok || project.OwnerID != ownerID {
		return nil, task.ErrNotFound
	}
	clone := *project
	return &clone, nil
}

func (r *memProjectRepo) ListByOwner(_ context.Context, ownerID ulid.ULID, page, size int) ([]*task.Project, error) {
	var owned []*task.Project
	for _, project := range r.projects {
		if project.OwnerID == ownerID {
			clone := *project
			owned = append(owned, &clone)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID.Compare(owned[j].ID) < 0
		}
		return owned[i].CreatedAt.Before(owned[j].CreatedAt)
	})
	return slicePage(owned, page, size), nil
}

func (r *memProjectRepo) CountByOwner(_ context.Context, ownerID ulid.ULID) (int64, error) {
	var count int64
	for _, project := range r.projects {
		if project.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *memProjectRepo) Update(_ context.Context, project *task.Project) error {
	existing, ok := r.projects[project.ID]
	if !ok || existing.OwnerID != project.OwnerID {
		return task.ErrNotFound
	}
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id, ownerID ulid.ULID) error {
	existing, ok := r.projects[id]
	if !ok || existing.OwnerID != ownerID {
		return task.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

// memTaskRepo is an in-memory task.TaskRepository.
type memTaskRepo struct {
	tasks map[ulid.ULID]*task.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[ulid.ULID]*task.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, t *task.Task) error {
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *memTaskRepo) GetInProject(_ context.Context, id, projectID ulid.ULID) (*task.Task, error) {
	stored, ok := r.tasks[id]
	if !ok || stored.ProjectID != projectID {
		return nil, task.ErrNotFound
	}
	clone := *stored
	return &clone, nil
}

func (r *memTaskRepo) ListByProject(_ context.Context, projectID ulid.ULID, page, size int) ([]*task.Task, error) {
	return slicePage(r.matching(projectID, ""), page, size), nil
}

func (r *memTaskRepo) Search(_ context.Context, projectID ulid.ULID, term string, page, size int) ([]*task.Task, error) {
	return slicePage(r.matching(projectID, term), page, size), nil
}

func (r *memTaskRepo) CountByProject(_ context.Context, projectID ulid.ULID) (int64, error) {
	return int64(len(r.matching(projectID, ""))), nil
}

func (r *memTaskRepo) CountMatching(_ context.Context, projectID ulid.ULID, term string) (int64, error) {
	return int64(len(r.matching(projectID, term))), nil
}

func (r *memTaskRepo) CountCompleted(_ context.Context, projectID ulid.ULID) (int64, error) {
	var count int64
	for _, stored := range r.tasks {
		if stored.ProjectID == projectID && stored.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (r *memTaskRepo) Update(_ context.Context, t *task.Task) error {
	existing, ok := r.tasks[t.ID]
	if !ok || existing.ProjectID != t.ProjectID {
		return task.ErrNotFound
	}
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id, projectID ulid.ULID) error {
	existing, ok := r.tasks[id]
	if !ok || existing.ProjectID != projectID {
		return task.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) matching(projectID ulid.ULID, term string) []*task.Task {
	lowered := strings.ToLower(term)
	var matched []*task.Task
	for _, stored := range r.tasks {
		if stored.ProjectID != projectID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(stored.Title), lowered) &&
			!strings.Contains(strings.ToLower(stored.Description), lowered) {
			continue
		}
		clone := *stored
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.Compare(matched[j].ID) < 0
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched
}

func slicePage[T any](items []T, page, size int) []T {
	start := page * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Compile-time interface checks for the fakes.
var (
	_ auth.UserRepository    = (*memUserRepo)(nil)
	_ task.ProjectRepository = (*memProjectRepo)(nil)
	_ task.TaskRepository    = (*memTaskRepo)(nil)
)

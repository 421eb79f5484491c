// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/taskforge/taskforge/internal/task"
)

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Create(ctx context.Context, project *task.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockProjectRepo) GetOwned(ctx context.Context, id, ownerID ulid.ULID) (*task.Project, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Project), args.Error(1)
}

func (m *mockProjectRepo) ListByOwner(ctx context.Context, ownerID ulid.ULID, page, size int) ([]*task.Project, error) {
	args := m.Called(ctx, ownerID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Project), args.Error(1)
}

func (m *mockProjectRepo) CountByOwner(ctx context.Context, ownerID ulid.ULID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProjectRepo) Update(ctx context.Context, project *task.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id, ownerID ulid.ULID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) GetInProject(ctx context.Context, id, projectID ulid.ULID) (*task.Task, error) {
	args := m.Called(ctx, id, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) ListByProject(ctx context.Context, projectID ulid.ULID, page, size int) ([]*task.Task, error) {
	args := m.Called(ctx, projectID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Search(ctx context.Context, projectID ulid.ULID, term string, page, size int) ([]*task.Task, error) {
	args := m.Called(ctx, projectID, term, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) CountByProject(ctx context.Context, projectID ulid.ULID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTaskRepo) CountMatching(ctx context.Context, projectID ulid.ULID, term string) (int64, error) {
	args := m.Called(ctx, projectID, term)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTaskRepo) CountCompleted(ctx context.Context, projectID ulid.ULID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTaskRepo) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id, projectID ulid.ULID) error {
	args := m.Called(ctx, id, projectID)
	return args.Error(0)
}

// Compile-time interface checks for the fakes.
var (
	_ task.ProjectRepository = (*mockProjectRepo)(nil)
	_ task.TaskRepository    = (*mockTaskRepo)(nil)
)

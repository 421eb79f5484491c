// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi

import (
	"time"

	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/task"
)

// dateFormat is the wire format for calendar dates (due dates).
const dateFormat = "2006-01-02"

type userJSON struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionJSON struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expiresIn"`
	User      userJSON `json:"user"`
}

type projectJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type taskJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     *string   `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
	ProjectID   string    `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type progressJSON struct {
	TotalTasks         int64   `json:"totalTasks"`
	CompletedTasks     int64   `json:"completedTasks"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

type pageJSON[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func toUserJSON(u auth.UserSummary) userJSON {
	return userJSON{
		ID:        u.ID.String(),
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

func toSessionJSON(s *auth.Session) sessionJSON {
	return sessionJSON{
		Token:     s.Token,
		ExpiresIn: s.ExpiresIn,
		User:      toUserJSON(s.User),
	}
}

func toProjectJSON(p *task.Project) projectJSON {
	return projectJSON{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		UserID:      p.OwnerID.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toTaskJSON(t *task.Task) taskJSON {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format(dateFormat)
		due = &s
	}
	return taskJSON{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     due,
		IsCompleted: t.IsCompleted,
		ProjectID:   t.ProjectID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toPageJSON[T, U any](page task.Page[T], convert func(T) U) pageJSON[U] {
	content := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		content = append(content, convert(item))
	}
	return pageJSON[U]{
		Content:       content,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalItems,
		TotalPages:    page.TotalPages,
	}
}

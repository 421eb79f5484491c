// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/httpapi"
	"github.com/taskforge/taskforge/internal/task"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testServer struct {
	handler http.Handler
	codec   *auth.TokenCodec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	codec, err := auth.NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)

	authService, err := auth.NewService(newMemUserRepo(), auth.NewArgon2idHasher(), codec)
	require.NoError(t, err)

	projectRepo := newMemProjectRepo()
	taskRepo := newMemTaskRepo()
	gate, err := task.NewGate(projectRepo, taskRepo)
	require.NoError(t, err)
	aggregator, err := task.NewAggregator(taskRepo, gate)
	require.NoError(t, err)
	projectService, err := task.NewProjectService(projectRepo, gate)
	require.NoError(t, err)
	taskService, err := task.NewTaskService(taskRepo, gate, aggregator)
	require.NoError(t, err)

	handler, err := httpapi.NewRouter(httpapi.Deps{
		Auth:     authService,
		Tokens:   codec,
		Projects: projectService,
		Tasks:    taskService,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return &testServer{handler: handler, codec: codec}
}

// do performs a request and decodes the JSON response into out if non-nil.
func (s *testServer) do(t *testing.T, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	User      struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	} `json:"user"`
}

func (s *testServer) register(t *testing.T, email string) sessionResponse {
	t.Helper()
	var session sessionResponse
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":           email,
		"fullName":        "Test User",
		"password":        "password123",
		"confirmPassword": "password123",
	}, &session)
	require.Equal(t, http.StatusCreated, rec.Code)
	return session
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("register returns session with user projection", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")

		assert.NotEmpty(t, session.Token)
		assert.Equal(t, int64(3600), session.ExpiresIn)
		assert.Equal(t, "alice@example.com", session.User.Email)
		assert.Equal(t, "Test User", session.User.FullName)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		server := newTestServer(t)
		server.register(t, "alice@example.com")

		rec := server.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":           "Alice@Example.com",
			"fullName":        "Other User",
			"password":        "password123",
			"confirmPassword": "password123",
		}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("password mismatch returns 400", func(t *testing.T) {
		server := newTestServer(t)
		rec := server.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":           "bob@example.com",
			"fullName":        "Bob Jones",
			"password":        "password123",
			"confirmPassword": "different",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login succeeds with registered credentials", func(t *testing.T) {
		server := newTestServer(t)
		server.register(t, "alice@example.com")

		var session sessionResponse
		rec := server.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		}, &session)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("wrong password and unknown email return identical 401s", func(t *testing.T) {
		server := newTestServer(t)
		server.register(t, "alice@example.com")

		var wrongPass map[string]any
		rec1 := server.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, &wrongPass)

		var unknown map[string]any
		rec2 := server.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "ghost@example.com",
			"password": "password123",
		}, &unknown)

		assert.Equal(t, http.StatusUnauthorized, rec1.Code)
		assert.Equal(t, http.StatusUnauthorized, rec2.Code)
		assert.Equal(t, wrongPass["message"], unknown["message"])
	})

	t.Run("me returns the authenticated user", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")

		var user struct {
			Email string `json:"email"`
		}
		rec := server.do(t, http.MethodGet, "/api/auth/me", session.Token, nil, &user)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		server := newTestServer(t)
		rec := server.do(t, http.MethodGet, "/api/auth/me", "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token returns 401 with expiry message", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")

		userID, err := ulid.Parse(session.User.ID)
		require.NoError(t, err)
		expired, _, err := server.codec.Issue(userID, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		var body map[string]any
		rec := server.do(t, http.MethodGet, "/api/auth/me", expired, nil, &body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "session expired", body["message"])
	})

	t.Run("tampered token returns 401", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")

		rec := server.do(t, http.MethodGet, "/api/auth/me", session.Token+"x", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("error envelope carries status, timestamp, and path", func(t *testing.T) {
		server := newTestServer(t)

		var body map[string]any
		rec := server.do(t, http.MethodGet, "/api/auth/me", "", nil, &body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
		assert.Equal(t, "/api/auth/me", body["path"])
		assert.NotEmpty(t, body["timestamp"])
	})
}

type projectResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
}

func (s *testServer) createProject(t *testing.T, token, title string) projectResponse {
	t.Helper()
	var project projectResponse
	rec := s.do(t, http.MethodPost, "/api/projects", token, map[string]string{
		"title":       title,
		"description": "a test project",
	}, &project)
	require.Equal(t, http.StatusCreated, rec.Code)
	return project
}

func TestProjectEndpoints(t *testing.T) {
	t.Run("create and fetch round trip", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		created := server.createProject(t, session.Token, "Renovation")

		var fetched projectResponse
		rec := server.do(t, http.MethodGet, "/api/projects/"+created.ID, session.Token, nil, &fetched)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, session.User.ID, fetched.UserID)
	})

	t.Run("list returns page envelope", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		server.createProject(t, session.Token, "First Project")
		server.createProject(t, session.Token, "Second Project")

		var page struct {
			Content       []projectResponse `json:"content"`
			Number        int               `json:"number"`
			Size          int               `json:"size"`
			TotalElements int64             `json:"totalElements"`
			TotalPages    int               `json:"totalPages"`
		}
		rec := server.do(t, http.MethodGet, "/api/projects?page=0&size=1", session.Token, nil, &page)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, 1, page.Size)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("enormous page number returns an empty page", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		server.createProject(t, session.Token, "Only Project")

		var page struct {
			Content       []projectResponse `json:"content"`
			TotalElements int64             `json:"totalElements"`
		}
		rec := server.do(t, http.MethodGet, "/api/projects?page=9223372036854775807&size=100", session.Token, nil, &page)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, page.Content)
		assert.Equal(t, int64(1), page.TotalElements)
	})

	t.Run("another user's project is indistinguishable from a missing one", func(t *testing.T) {
		server := newTestServer(t)
		alice := server.register(t, "alice@example.com")
		mallory := server.register(t, "mallory@example.com")
		created := server.createProject(t, alice.Token, "Private Project")

		var foreign map[string]any
		rec1 := server.do(t, http.MethodGet, "/api/projects/"+created.ID, mallory.Token, nil, &foreign)

		var missing map[string]any
		rec2 := server.do(t, http.MethodGet, "/api/projects/"+ulid.Make().String(), mallory.Token, nil, &missing)

		assert.Equal(t, http.StatusNotFound, rec1.Code)
		assert.Equal(t, http.StatusNotFound, rec2.Code)
		assert.Equal(t, missing["message"], foreign["message"])
	})

	t.Run("malformed project ID returns 404", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")

		rec := server.do(t, http.MethodGet, "/api/projects/not-a-ulid", session.Token, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update replaces title, delete removes", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		created := server.createProject(t, session.Token, "Old Title")

		var updated projectResponse
		rec := server.do(t, http.MethodPut, "/api/projects/"+created.ID, session.Token, map[string]string{
			"title": "New Title",
		}, &updated)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "New Title", updated.Title)

		rec = server.do(t, http.MethodDelete, "/api/projects/"+created.ID, session.Token, nil, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = server.do(t, http.MethodGet, "/api/projects/"+created.ID, session.Token, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid title returns 400 with field message", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")

		var body map[string]any
		rec := server.do(t, http.MethodPost, "/api/projects", session.Token, map[string]string{
			"title": "ab",
		}, &body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["message"], "title")
	})
}

type taskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	DueDate     *string `json:"dueDate"`
	IsCompleted bool    `json:"isCompleted"`
	ProjectID   string  `json:"projectId"`
}

func (s *testServer) createTask(t *testing.T, token, projectID string, body map[string]any) taskResponse {
	t.Helper()
	var created taskResponse
	rec := s.do(t, http.MethodPost, "/api/projects/"+projectID+"/tasks", token, body, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	return created
}

func TestTaskEndpoints(t *testing.T) {
	t.Run("create carries due date and starts incomplete", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		project := server.createProject(t, session.Token, "Renovation")

		created := server.createTask(t, session.Token, project.ID, map[string]any{
			"title":   "Paint walls",
			"dueDate": "2026-09-15",
		})
		assert.False(t, created.IsCompleted)
		require.NotNil(t, created.DueDate)
		assert.Equal(t, "2026-09-15", *created.DueDate)
	})

	t.Run("invalid due date format returns 400", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		project := server.createProject(t, session.Token, "Renovation")

		rec := server.do(t, http.MethodPost, "/api/projects/"+project.ID+"/tasks", session.Token, map[string]any{
			"title":   "Paint walls",
			"dueDate": "15/09/2026",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("complete is idempotent", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		project := server.createProject(t, session.Token, "Renovation")
		created := server.createTask(t, session.Token, project.ID, map[string]any{"title": "Paint walls"})

		path := "/api/projects/" + project.ID + "/tasks/" + created.ID + "/complete"

		var first taskResponse
		rec := server.do(t, http.MethodPut, path, session.Token, nil, &first)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, first.IsCompleted)

		var second taskResponse
		rec = server.do(t, http.MethodPut, path, session.Token, nil, &second)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, second.IsCompleted)
	})

	t.Run("search filters by title and description", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		project := server.createProject(t, session.Token, "Renovation")
		server.createTask(t, session.Token, project.ID, map[string]any{"title": "Paint the fence"})
		server.createTask(t, session.Token, project.ID, map[string]any{
			"title":       "Weekend chores",
			"description": "buy PAINT and brushes",
		})
		server.createTask(t, session.Token, project.ID, map[string]any{"title": "File taxes"})

		var page struct {
			Content       []taskResponse `json:"content"`
			TotalElements int64          `json:"totalElements"`
		}
		rec := server.do(t, http.MethodGet, "/api/projects/"+project.ID+"/tasks/search?q=paint", session.Token, nil, &page)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, page.Content, 2)
		assert.Equal(t, int64(2), page.TotalElements)
	})

	t.Run("progress reflects completion counts", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		project := server.createProject(t, session.Token, "Renovation")
		first := server.createTask(t, session.Token, project.ID, map[string]any{"title": "Task one"})
		server.createTask(t, session.Token, project.ID, map[string]any{"title": "Task two"})

		server.do(t, http.MethodPut, "/api/projects/"+project.ID+"/tasks/"+first.ID+"/complete", session.Token, nil, nil)

		var progress struct {
			TotalTasks         int64   `json:"totalTasks"`
			CompletedTasks     int64   `json:"completedTasks"`
			ProgressPercentage float64 `json:"progressPercentage"`
		}
		rec := server.do(t, http.MethodGet, "/api/projects/"+project.ID+"/tasks/progress", session.Token, nil, &progress)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(2), progress.TotalTasks)
		assert.Equal(t, int64(1), progress.CompletedTasks)
		assert.InDelta(t, 50.0, progress.ProgressPercentage, 0.0001)
	})

	t.Run("empty project reports zero progress", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		project := server.createProject(t, session.Token, "Empty Project")

		var progress struct {
			TotalTasks         int64   `json:"totalTasks"`
			ProgressPercentage float64 `json:"progressPercentage"`
		}
		rec := server.do(t, http.MethodGet, "/api/projects/"+project.ID+"/tasks/progress", session.Token, nil, &progress)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, progress.TotalTasks)
		assert.Zero(t, progress.ProgressPercentage)
	})

	t.Run("task under another user's project is hidden", func(t *testing.T) {
		server := newTestServer(t)
		alice := server.register(t, "alice@example.com")
		mallory := server.register(t, "mallory@example.com")
		project := server.createProject(t, alice.Token, "Private Project")
		created := server.createTask(t, alice.Token, project.ID, map[string]any{"title": "Secret Task"})

		rec := server.do(t, http.MethodGet, "/api/projects/"+project.ID+"/tasks/"+created.ID, mallory.Token, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = server.do(t, http.MethodDelete, "/api/projects/"+project.ID+"/tasks/"+created.ID, mallory.Token, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		// Still there for the owner.
		rec = server.do(t, http.MethodGet, "/api/projects/"+project.ID+"/tasks/"+created.ID, alice.Token, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update clears due date when omitted", func(t *testing.T) {
		server := newTestServer(t)
		session := server.register(t, "alice@example.com")
		project := server.createProject(t, session.Token, "Renovation")
		created := server.createTask(t, session.Token, project.ID, map[string]any{
			"title":   "Paint walls",
			"dueDate": "2026-09-15",
		})

		var updated taskResponse
		rec := server.do(t, http.MethodPut, "/api/projects/"+project.ID+"/tasks/"+created.ID, session.Token, map[string]any{
			"title": "Paint walls again",
		}, &updated)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, updated.DueDate)
	})
}

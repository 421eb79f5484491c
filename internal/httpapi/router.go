// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/observability"
	"github.com/taskforge/taskforge/internal/task"
)

// Deps carries everything the HTTP surface needs. Metrics may be nil
// when the observability server is disabled.
type Deps struct {
	Auth     *auth.Service
	Tokens   *auth.TokenCodec
	Projects *task.ProjectService
	Tasks    *task.TaskService
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// NewRouter assembles the REST API. Authentication endpoints are public;
// everything else sits behind bearer token verification.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Auth == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if deps.Tokens == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if deps.Projects == nil {
		return nil, oops.Errorf("project service is required")
	}
	if deps.Tasks == nil {
		return nil, oops.Errorf("task service is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	authH := &authHandler{service: deps.Auth, logger: deps.Logger}
	projectH := &projectHandler{service: deps.Projects, logger: deps.Logger}
	taskH := &taskHandler{service: deps.Tasks, logger: deps.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger, deps.Metrics))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authH.login)
			r.Post("/register", authH.register)

			r.Group(func(r chi.Router) {
				r.Use(authenticate(deps.Tokens, deps.Metrics))
				r.Get("/me", authH.me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate(deps.Tokens, deps.Metrics))

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectH.create)
				r.Get("/", projectH.list)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", projectH.get)
					r.Put("/", projectH.update)
					r.Delete("/", projectH.delete)

					r.Route("/tasks", func(r chi.Router) {
						r.Post("/", taskH.create)
						r.Get("/", taskH.list)
						r.Get("/search", taskH.search)
						r.Get("/progress", taskH.progress)

						r.Route("/{taskID}", func(r chi.Router) {
							r.Get("/", taskH.get)
							r.Put("/", taskH.update)
							r.Delete("/", taskH.delete)
							r.Put("/complete", taskH.complete)
						})
					})
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r, nil
}

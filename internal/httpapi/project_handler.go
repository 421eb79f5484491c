// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/taskforge/taskforge/internal/task"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps page*size well inside int range so the repositories'
	// OFFSET computation can never wrap negative.
	maxPage = 1_000_000
)

type projectHandler struct {
	service *task.ProjectService
	logger  *slog.Logger
}

type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *projectHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	project, err := h.service.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectJSON(project))
}

func (h *projectHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing bearer token")
		return
	}

	page, size := pageParams(r)

	result, err := h.service.List(r.Context(), userID, page, size)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageJSON(result, toProjectJSON))
}

func (h *projectHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.identify(w, r)
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), projectID, userID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectJSON(project))
}

func (h *projectHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	project, err := h.service.Update(r.Context(), projectID, userID, req.Title, req.Description)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectJSON(project))
}

func (h *projectHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.identify(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), projectID, userID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// identify resolves the caller and the project ID path parameter. An
// unparseable ID gets the same 404 as an unknown one so the response
// never distinguishes malformed from missing.
func (h *projectHandler) identify(w http.ResponseWriter, r *http.Request) (userID, projectID ulid.ULID, ok bool) {
	userID, ok = PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "missing bearer token")
		return userID, projectID, false
	}

	projectID, err := ulid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return userID, projectID, false
	}

	return userID, projectID, true
}

// pageParams reads page and size query parameters, clamping both to a
// sane range and silently falling back to defaults on garbage input.
func pageParams(r *http.Request) (page, size int) {
	page = 0
	size = defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			page = n
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	if page > maxPage {
		page = maxPage
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/taskforge/taskforge/internal/task"
)

type taskHandler struct {
	service *task.TaskService
	logger  *slog.Logger
}

type taskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate"`
}

// dueDate parses the optional calendar date. A nil pointer means the
// task has no due date.
func (req *taskRequest) dueDate() (*time.Time, error) {
	if req.DueDate == nil || *req.DueDate == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateFormat, *req.DueDate)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (h *taskHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	due, err := req.dueDate()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "dueDate must use YYYY-MM-DD format")
		return
	}

	created, err := h.service.Create(r.Context(), userID, projectID, req.Title, req.Description, due)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskJSON(created))
}

func (h *taskHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.identify(w, r)
	if !ok {
		return
	}

	page, size := pageParams(r)

	result, err := h.service.List(r.Context(), userID, projectID, page, size)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageJSON(result, toTaskJSON))
}

func (h *taskHandler) search(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.identify(w, r)
	if !ok {
		return
	}

	term := r.URL.Query().Get("q")
	page, size := pageParams(r)

	result, err := h.service.Search(r.Context(), userID, projectID, term, page, size)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageJSON(result, toTaskJSON))
}

func (h *taskHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.identifyTask(w, r)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), userID, projectID, taskID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskJSON(found))
}

func (h *taskHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.identifyTask(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	due, err := req.dueDate()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "dueDate must use YYYY-MM-DD format")
		return
	}

	updated, err := h.service.Update(r.Context(), userID, projectID, taskID, req.Title, req.Description, due)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskJSON(updated))
}

func (h *taskHandler) complete(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.identifyTask(w, r)
	if !ok {
		return
	}

	completed, err := h.service.Complete(r.Context(), userID, projectID, taskID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskJSON(completed))
}

func (h *taskHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, projectID, taskID, ok := h.identifyTask(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, projectID, taskID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *taskHandler) progress(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.identify(w, r)
	if !ok {
		return
	}

	progress, err := h.service.Progress(r.Context(), userID, projectID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, progressJSON{
		TotalTasks:         progress.TotalTasks,
		CompletedTasks:     progress.CompletedTasks,
		ProgressPercentage: progress.Percentage,
	})
}

func (h *taskHandler) identify(w http.ResponseWriter, r *http.Request) (userID, projectID ulid.ULID, ok bool) {
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

func (h *taskHandler) identifyTask(w http.ResponseWriter, r *http.Request) (userID, projectID, taskID ulid.ULID, ok bool) {
	userID, projectID, ok = h.identify(w, r)
	if !ok {
		return userID, projectID, taskID, false
	}

	taskID, err := ulid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return userID, projectID, taskID, false
	}

	return userID, projectID, taskID, true
}

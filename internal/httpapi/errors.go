// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/task"
	"github.com/taskforge/taskforge/pkg/errutil"
)

// genericServerError is returned for any failure the taxonomy does not
// cover. Details go to the log, never to the client.
const genericServerError = "an unexpected error occurred"

// mapError translates a core failure into a transport status and a safe
// message.
func mapError(err error) (int, string) {
	var validationErr *task.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, auth.ErrPasswordMismatch):
		return http.StatusBadRequest, auth.ErrPasswordMismatch.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid session token"
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, auth.ErrEmailTaken.Error()
	case errors.Is(err, task.ErrNotFound), errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	}

	// Credential-field validation errors originate in the auth package as
	// coded errors rather than sentinels.
	if oopsErr, ok := oops.AsOops(err); ok {
		code, _ := oopsErr.Code().(string)
		if strings.HasPrefix(code, "AUTH_INVALID_") || code == "AUTH_EMPTY_PASSWORD" {
			return http.StatusBadRequest, oopsErr.Error()
		}
	}

	return http.StatusInternalServerError, genericServerError
}

// respondError maps, logs server-side failures, and writes the envelope.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, message := mapError(err)
	if status == http.StatusInternalServerError {
		errutil.LogError(logger, "request failed", err)
	}
	writeError(w, r, status, message)
}

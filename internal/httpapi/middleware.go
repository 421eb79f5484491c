// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"

	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/observability"
)

type principalKey struct{}

// withPrincipal stores the authenticated user's ID in the context.
func withPrincipal(ctx context.Context, userID ulid.ULID) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// PrincipalFromContext returns the authenticated user's ID, if any.
func PrincipalFromContext(ctx context.Context) (ulid.ULID, bool) {
	userID, ok := ctx.Value(principalKey{}).(ulid.ULID)
	return userID, ok
}

// authenticate verifies the bearer token on every request and rejects
// anything that does not carry a valid session. Expired tokens get a
// distinct message so clients know to re-login rather than give up.
func authenticate(codec *auth.TokenCodec, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				if metrics != nil {
					metrics.AuthFailures.WithLabelValues("missing").Inc()
				}
				writeError(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := codec.Verify(token, time.Now())
			if err != nil {
				if metrics != nil {
					metrics.AuthFailures.WithLabelValues(failureKind(err)).Inc()
				}
				status, message := mapError(err)
				writeError(w, r, status, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func failureKind(err error) string {
	if errors.Is(err, auth.ErrTokenExpired) {
		return "expired"
	}
	return "invalid"
}

// requestLogger emits one structured line per request, carrying the
// chi request ID so log lines correlate with traces of a single call.
func requestLogger(logger *slog.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestID := middleware.GetReqID(ctx); requestID != "" {
				ctx = logging.WithRequestID(ctx, requestID)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if metrics != nil {
				metrics.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			}

			logger.InfoContext(ctx, "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

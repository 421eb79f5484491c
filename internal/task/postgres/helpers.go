// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

// Package postgres provides PostgreSQL implementations of the task
// repository interfaces.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// poolIface abstracts pgxpool.Pool so repositories can be unit tested
// with pgxmock.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

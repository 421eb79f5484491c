// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned when login fails. A missing account and
// a wrong password both map to this error so callers cannot probe which
// email addresses are registered.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when registering an email that already has an
// account.
var ErrEmailTaken = errors.New("email already registered")

// ErrPasswordMismatch is returned when the registration password and its
// confirmation differ.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Token verification failures. Expired and structurally invalid tokens are
// distinguishable so the boundary can report them separately.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

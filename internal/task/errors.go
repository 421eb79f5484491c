// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a project or task does not exist or is not
// owned by the requesting user. The two cases are deliberately merged.
var ErrNotFound = errors.New("not found")

// ValidationError represents an input validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

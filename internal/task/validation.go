// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

import (
	"fmt"
	"unicode/utf8"
)

// Validation limits for domain types.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// ValidateTitle checks that a project or task title is valid. Length
// bounds count characters, not bytes.
func ValidateTitle(title string) error {
	if !utf8.ValidString(title) {
		return &ValidationError{Field: "title", Message: "must be valid UTF-8"}
	}
	length := utf8.RuneCountInString(title)
	if length < MinTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("must be at least %d characters", MinTitleLength)}
	}
	if length > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("exceeds maximum length of %d", MaxTitleLength)}
	}
	return nil
}

// ValidateDescription checks that a description is valid. Descriptions are
// optional; empty is fine. Length bounds count characters, not bytes.
func ValidateDescription(description string) error {
	if !utf8.ValidString(description) {
		return &ValidationError{Field: "description", Message: "must be valid UTF-8"}
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("exceeds maximum length of %d", MaxDescriptionLength)}
	}
	return nil
}

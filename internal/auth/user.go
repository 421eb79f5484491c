// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package auth

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Full name validation constraints.
const (
	MinFullNameLength = 2
	MaxFullNameLength = 100
)

// emailRegex matches a local part, an @, and a dotted domain. Deliberately
// permissive: the mailbox is the real validator.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account. PasswordHash is opaque and must
// never leave the package boundary in any outward projection.
type User struct {
	ID           ulid.ULID
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser creates a validated User with a fresh ID. The email is
// normalized with NormalizeEmail before storage.
func NewUser(email, fullName, passwordHash string) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateFullName(fullName); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	return &User{
		ID:           ulid.Make(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NormalizeEmail lowercases and trims an email address. Emails compare
// case-insensitively everywhere, so they are stored lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates an email address shape.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").
			With("email", email).
			Errorf("email address is not valid")
	}
	return nil
}

// ValidateFullName validates a display name. Length bounds count
// characters, not bytes.
func ValidateFullName(fullName string) error {
	trimmed := strings.TrimSpace(fullName)
	length := utf8.RuneCountInString(trimmed)
	if length < MinFullNameLength {
		return oops.Code("AUTH_INVALID_NAME").
			With("min", MinFullNameLength).
			Errorf("full name must be at least %d characters", MinFullNameLength)
	}
	if length > MaxFullNameLength {
		return oops.Code("AUTH_INVALID_NAME").
			With("max", MaxFullNameLength).
			Errorf("full name must be at most %d characters", MaxFullNameLength)
	}
	return nil
}

// UserRepository manages account persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrEmailTaken if another user
	// already holds the email (the unique index is the authoritative
	// defense against concurrent registrations).
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

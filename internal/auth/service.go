// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// UserSummary is the outward projection of a User. It never carries the
// password hash.
type UserSummary struct {
	ID        ulid.ULID
	Email     string
	FullName  string
	CreatedAt time.Time
}

// Session is the result of a successful login or registration.
type Session struct {
	Token     string
	ExpiresIn int64 // seconds until the token expires
	User      UserSummary
}

// Service provides registration and login.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenCodec
}

// NewService creates a credential Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenCodec) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token codec is required")
	}
	return &Service{users: users, hasher: hasher, tokens: tokens}, nil
}

// dummyPasswordHash is verified against when no account matches the email,
// so a login attempt costs the same whether or not the account exists.
// This is NOT a real credential - it's a fake digest that never matches.
//
//nolint:gosec // G101: intentionally fake digest for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Login authenticates by email and password and issues a session token.
// A missing account and a wrong password return the same
// ErrInvalidCredentials, and the password digest is verified in both cases
// to keep response times indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, lookupErr := s.users.GetByEmail(ctx, NormalizeEmail(email))

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid := s.hasher.Verify(password, targetHash)
	if !userExists || !valid {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	return s.issueSession(user)
}

// Register creates an account and issues a session identical in shape to
// Login's. The email pre-check keeps the common duplicate case cheap; the
// repository's unique constraint closes the race between two concurrent
// registrations, and both paths surface as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, fullName, password, confirmPassword string) (*Session, error) {
	if password != confirmPassword {
		return nil, oops.Code("AUTH_PASSWORD_MISMATCH").Wrap(ErrPasswordMismatch)
	}

	email = NormalizeEmail(email)
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, oops.Code("AUTH_EMAIL_TAKEN").With("email", email).Wrap(ErrEmailTaken)
	case !errors.Is(err, ErrNotFound):
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := NewUser(email, fullName, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, oops.Code("AUTH_EMAIL_TAKEN").With("email", email).Wrap(ErrEmailTaken)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	return s.issueSession(user)
}

// CurrentUser returns the outward projection for a resolved principal.
func (s *Service) CurrentUser(ctx context.Context, userID ulid.ULID) (*UserSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_USER_NOT_FOUND").
				With("user_id", userID.String()).
				Wrap(ErrNotFound)
		}
		return nil, oops.Code("AUTH_CURRENT_USER_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}
	summary := summarize(user)
	return &summary, nil
}

func (s *Service) issueSession(user *User) (*Session, error) {
	token, _, err := s.tokens.Issue(user.ID, time.Now())
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      summarize(user),
	}, nil
}

func summarize(user *User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}

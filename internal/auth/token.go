// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = time.Hour

// MinTokenSecretLen is the minimum length of the signing secret in bytes.
const MinTokenSecretLen = 32

// TokenCodec issues and verifies stateless session tokens. Tokens are
// HMAC-SHA256 signed JWTs carrying the subject user ID, issue time, and
// expiry; any bit flip in payload or signature invalidates them.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a TokenCodec with the given signing secret and
// token lifetime. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < MinTokenSecretLen {
		return nil, oops.Code("AUTH_WEAK_SECRET").
			With("min_bytes", MinTokenSecretLen).
			Errorf("token secret must be at least %d bytes", MinTokenSecretLen)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the given user, valid from now until
// now plus the configured TTL. Returns the compact token and its expiry.
func (c *TokenCodec) Issue(userID ulid.ULID, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(c.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("AUTH_TOKEN_SIGN_FAILED").
			With("subject", userID.String()).
			Wrap(err)
	}
	return token, expiresAt, nil
}

// Verify checks the token's signature and expiry against the given time
// and returns the subject user ID. Expiry and structural failures are
// reported as ErrTokenExpired and ErrTokenInvalid respectively.
func (c *TokenCodec) Verify(token string, now time.Time) (ulid.ULID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ulid.ULID{}, oops.Code("AUTH_TOKEN_EXPIRED").Wrap(ErrTokenExpired)
		}
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").Wrap(ErrTokenInvalid)
	}

	subject, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").
			With("subject", claims.Subject).
			Wrap(ErrTokenInvalid)
	}
	return subject, nil
}

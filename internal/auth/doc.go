// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

// Package auth provides credential management for TaskForge.
//
// # Domain Types
//
// User accounts should be created with NewUser, which validates the email
// and full name. Direct struct initialization bypasses validation and may
// create invalid state. Repository implementations receive pre-validated
// values from the constructor.
//
// # Components
//
//   - Argon2idHasher - salted one-way password hashing with constant-time verify
//   - TokenCodec - stateless signed session tokens (issue/verify pair)
//   - Service - registration and login, built on the two primitives above
//
// Tokens are never stored server-side: a token remains valid until its
// expiry regardless of later account changes. There is no revocation list.
package auth

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

// Package httpapi exposes the TaskForge services over REST.
//
// The boundary owns everything the core deliberately does not: request
// binding and field validation, bearer-token resolution into a principal,
// and the mapping from typed core failures to transport status codes with
// non-leaking messages.
package httpapi

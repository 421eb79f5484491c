// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

// Package task provides the project and task domain for TaskForge.
//
// Every project belongs to exactly one user and every task to exactly one
// project, so a task's owner is reached transitively through its project.
// All service operations resolve ownership through the Gate before touching
// state: a resource that does not exist and a resource owned by someone
// else are both reported as ErrNotFound, never revealing the difference.
//
// Repository lookups are ownership-scoped: they filter by resource ID and
// owner in a single query rather than fetching and comparing in two steps.
package task

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskForge Contributors

package task

// Page is a pagination envelope. Number is the 0-based page index.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int64
	TotalPages int
}

// NewPage builds a Page from one page of items and the total item count.
func NewPage[T any](items []T, number, size int, totalItems int64) Page[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((totalItems + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Items:      items,
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

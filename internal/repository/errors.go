// Package repository executes parameterized SQL against the users and posts
// tables over a pgx connection pool.
package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no rows, or an update
	// or delete affects none.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicate is returned when an insert violates a unique
	// constraint (username or email already taken).
	ErrDuplicate = errors.New("repository: duplicate")
)

package session

import "errors"

var (
	// ErrNotConfigured is returned when session functionality is used but
	// no session manager was wired into the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrNotFound is returned when a session does not exist in the store.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session is past its expiry.
	ErrExpired = errors.New("session: expired")
)

package session

import (
	"context"
	"time"
)

// Store persists sessions. Implementations are storage-specific; the Redis
// store is used in production and the memory store in tests.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its cookie token.
	// Returns ErrNotFound for unknown tokens and ErrExpired for stale ones.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session, including token rotation.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes all sessions bound to a user
	// ("log out everywhere").
	DeleteByUserID(ctx context.Context, userID int64) error

	// Touch bumps LastActiveAt without loading the full session.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error
}

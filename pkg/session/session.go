// Package session defines browser sessions and their persistence.
// A session is identified by an opaque cookie token; the token maps to a
// session record holding an optional user id. No user id means anonymous.
package session

import (
	"errors"
	"time"
)

// Session is a per-browser session record.
type Session struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	UserID       *int64         `json:"user_id,omitempty"` // nil = anonymous
	Values       map[string]any `json:"values,omitempty"`
	ID           string         `json:"id"`
	Token        string         `json:"token"` // cookie token, distinct from ID

	dirty bool
	isNew bool
}

// New creates a session with the given id and cookie token.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// IsAuthenticated reports whether a user is bound to the session.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != 0
}

// SetValue stores a value and marks the session dirty.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue retrieves a stored value.
func (s *Session) GetValue(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value; marks dirty only if the key existed.
func (s *Session) DeleteValue(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// IsDirty reports whether the session has unsaved changes.
func (s *Session) IsDirty() bool { return s.dirty }

// ClearDirty marks the session as saved.
func (s *Session) ClearDirty() { s.dirty = false }

// MarkDirty marks the session as needing a save.
func (s *Session) MarkDirty() { s.dirty = true }

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool { return s.isNew }

// ClearNew is called after the session is first persisted.
func (s *Session) ClearNew() { s.isNew = false }

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value retrieves a typed session value.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.New("session: type mismatch for key: " + key)
	}

	return typed, nil
}

package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and local development.
// Not suitable for multi-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*Session
	byToken  map[string]string // token -> id
	byUserID map[int64]map[string]struct{}
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]*Session),
		byToken:  make(map[string]string),
		byUserID: make(map[int64]map[string]struct{}),
	}
}

func (s *MemoryStore) Create(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	s.byID[cp.ID] = &cp
	s.byToken[cp.Token] = cp.ID
	if cp.UserID != nil {
		s.indexUser(*cp.UserID, cp.ID)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	id, ok := s.byToken[token]
	if !ok {
		s.mu.RUnlock()
		return nil, ErrNotFound
	}
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if sess.IsExpired() {
		_ = s.Delete(context.Background(), sess.ID)
		return nil, ErrExpired
	}

	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Update(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.byID[sess.ID]
	if !ok {
		return ErrNotFound
	}

	if prev.Token != sess.Token {
		delete(s.byToken, prev.Token)
	}
	if prev.UserID != nil && (sess.UserID == nil || *prev.UserID != *sess.UserID) {
		delete(s.byUserID[*prev.UserID], sess.ID)
	}

	cp := *sess
	s.byID[cp.ID] = &cp
	s.byToken[cp.Token] = cp.ID
	if cp.UserID != nil {
		s.indexUser(*cp.UserID, cp.ID)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil
	}

	delete(s.byID, id)
	delete(s.byToken, sess.Token)
	if sess.UserID != nil {
		delete(s.byUserID[*sess.UserID], id)
	}
	return nil
}

func (s *MemoryStore) DeleteByUserID(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.byUserID[userID] {
		if sess, ok := s.byID[id]; ok {
			delete(s.byID, id)
			delete(s.byToken, sess.Token)
		}
	}
	delete(s.byUserID, userID)
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, id string, lastActiveAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	sess.LastActiveAt = lastActiveAt
	return nil
}

// Len reports the number of live sessions. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemoryStore) indexUser(userID int64, id string) {
	set, ok := s.byUserID[userID]
	if !ok {
		set = make(map[string]struct{})
		s.byUserID[userID] = set
	}
	set[id] = struct{}{}
}

var _ Store = (*MemoryStore)(nil)

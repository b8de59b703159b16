package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

// MemoryStore is the process-local fallback session store. Contents are lost
// on restart. It never suspends and never reports storage.ErrUnavailable.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Get returns the session for token, or storage.ErrNotFound when the token
// is absent or the record is already expired.
func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || sess.IsExpired() {
		return nil, storage.ErrNotFound
	}

	// Copy out so callers cannot mutate shared state.
	out := sess
	out.Data = maps.Clone(sess.Data)
	return &out, nil
}

// Put stores or replaces the session.
func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	cp := *sess
	cp.Data = maps.Clone(sess.Data)

	s.mu.Lock()
	s.sessions[sess.Token] = cp
	s.mu.Unlock()
	return nil
}

// Delete removes the session. Absent tokens are ignored.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// SweepExpired removes all expired sessions and returns the count removed.
func (s *MemoryStore) SweepExpired(_ context.Context) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			count++
		}
	}
	return count, nil
}

// Len reports the number of records currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ Store = (*MemoryStore)(nil)

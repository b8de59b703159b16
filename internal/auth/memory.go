package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

// MemoryUserStore is the process-local principal store used in memory mode
// and in tests. Contents are lost on restart.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]Principal
	byEmail map[string]uuid.UUID
}

// NewMemoryUserStore creates an empty in-memory principal store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[uuid.UUID]Principal),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Create stores the principal, rejecting duplicate emails.
func (s *MemoryUserStore) Create(_ context.Context, p *Principal) error {
	email := strings.ToLower(p.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return ErrEmailTaken
	}
	s.byID[p.ID] = *p
	s.byEmail[email] = p.ID
	return nil
}

// ByEmail returns the principal registered under email.
func (s *MemoryUserStore) ByEmail(_ context.Context, email string) (*Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p := s.byID[id]
	return &p, nil
}

// ByID returns the principal with the given id.
func (s *MemoryUserStore) ByID(_ context.Context, id uuid.UUID) (*Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

// Remove deletes the principal with the given id, if present.
func (s *MemoryUserStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byEmail, strings.ToLower(p.Email))
	delete(s.byID, id)
}

var _ UserStore = (*MemoryUserStore)(nil)

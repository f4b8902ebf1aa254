package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using an in-memory map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionData
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*SessionData),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, key string, data *SessionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *data
	stored.CreatedAt = time.Now()
	data.CreatedAt = stored.CreatedAt

	s.sessions[key] = &stored
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) (*SessionData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.sessions[key]
	if !exists {
		return nil, nil // Not found
	}
	out := *data
	return &out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*SessionData)
	return nil
}

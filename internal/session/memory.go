package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process session store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

// Load returns the saved state, or ErrNotFound.
func (s *MemoryStore) Load(_ context.Context, id string) (State, error) {
	s.mu.RLock()
	raw, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return State{}, ErrNotFound
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("session: decode state: %w", err)
	}
	return state, nil
}

// Save overwrites the state for a session.
func (s *MemoryStore) Save(_ context.Context, id string, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}
	s.mu.Lock()
	s.sessions[id] = raw
	s.mu.Unlock()
	return nil
}

// Clear removes the session.
func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)

package store

import (
	"context"
	"sync"
)

// MemoryStore implements CartIDStore in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	bySession map[string]string // session -> cart id
	byCart    map[string]string // cart id -> session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bySession: make(map[string]string),
		byCart:    make(map[string]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, session string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySession[session]
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

func (s *MemoryStore) Set(_ context.Context, session, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.bySession[session]; ok {
		delete(s.byCart, old)
	}
	s.bySession[session] = cartID
	s.byCart[cartID] = session
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.bySession[session]; ok {
		delete(s.byCart, id)
		delete(s.bySession, session)
	}
	return nil
}

func (s *MemoryStore) SessionFor(_ context.Context, cartID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byCart[cartID]
	if !ok {
		return "", ErrNotFound
	}
	return session, nil
}

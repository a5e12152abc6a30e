package store

import (
	"context"
	"sync"
)

// memoryStore implements Store using an in-memory map.
type memoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		slots: make(map[string]string),
	}
}

// Get implements Store.
func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, exists := s.slots[key]
	if !exists {
		return "", ErrNotFound
	}
	return val, nil
}

// Set implements Store.
func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = value
	return nil
}

// Delete implements Store.
func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = nil
	return nil
}

package prefs

import (
	"maps"
	"sync"
)

// MemoryStore is a Store that lives only in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a MemoryStore seeded with initial values.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &MemoryStore{values: values}
}

// Get returns the stored value and whether the key was present.
func (s *MemoryStore) Get(key Key) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value.
func (s *MemoryStore) Set(key Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// All returns a copy of every stored pair.
func (s *MemoryStore) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

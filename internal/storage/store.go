package storage

import "sync"

// Store is the common resource the demo server puts behind a semaphore:
// a string key-value store safe for concurrent use.
type Store interface {
	Set(key, value string)
	Get(key string) string
	Del(key string)
	Len() int
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryStore(initialSize int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string, initialSize),
	}
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
}

func (s *MemoryStore) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key]
}

func (s *MemoryStore) Del(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

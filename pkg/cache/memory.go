package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryStore is a mutex-protected map with per-entry expiry. It is the
// fallback when Redis is not configured and the store used in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	e, ok := s.store[key]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.store, key)
		s.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (s *MemoryStore) Put(_ context.Context, key string, value string, ttl time.Duration) {
	s.mu.Lock()
	s.store[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// Invalidate removes keys matching a glob pattern, mirroring the Redis
// SCAN-based behavior.
func (s *MemoryStore) Invalidate(_ context.Context, pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.store {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.store, key)
		}
	}
}

// Len reports live entries, expired ones included until read.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

package storage

import (
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	expires time.Time
}

// MemStore is an in-process cache store. Entries are evicted lazily on read;
// there is no capacity bound because the TTL bounds growth.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

// NewMemStore creates an empty in-memory cache store.
func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]memEntry),
	}
}

func (s *MemStore) GetCachedData(key string) []byte {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if time.Now().After(entry.expires) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have renewed it.
		if current, ok := s.entries[key]; ok && time.Now().After(current.expires) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil
	}

	return entry.data
}

func (s *MemStore) SetCachedData(key string, data []byte, ttlSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memEntry{
		data:    data,
		expires: time.Now().Add(time.Duration(ttlSeconds) * time.Second),
	}
}

func (s *MemStore) CacheEntries() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries))
}

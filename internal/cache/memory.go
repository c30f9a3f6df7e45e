package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a process-local cache backend
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a memory store; ttl <= 0 disables expiry
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, cache, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[cache][key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryStore) Put(_ context.Context, cache, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	if m.entries[cache] == nil {
		m.entries[cache] = make(map[string]memoryEntry)
	}
	m.entries[cache][key] = entry
	return nil
}

func (m *MemoryStore) EvictAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]map[string]memoryEntry)
	return nil
}

// Len returns the number of entries in a cache, expired ones included
func (m *MemoryStore) Len(cache string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries[cache])
}

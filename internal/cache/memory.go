package cache

import (
	"context"
	"sync"
)

// MemoryStore implements Store with an in-process map. Useful for tests and
// ephemeral runs; entries do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	version string
	entries map[string][]byte
}

// NewMemory creates a new in-memory store for the given version tag
func NewMemory(version string) *MemoryStore {
	return &MemoryStore{
		version: version,
		entries: make(map[string][]byte),
	}
}

// Init is a no-op for the in-memory store
func (m *MemoryStore) Init(ctx context.Context) error {
	return nil
}

// Get retrieves stored data if the key is present
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return data, nil
}

// Set stores data under a key
func (m *MemoryStore) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = data
	return nil
}

// Clear removes every entry
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string][]byte)
	return nil
}

// Version returns the version tag
func (m *MemoryStore) Version() string {
	return m.version
}

// Len returns the number of stored entries
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

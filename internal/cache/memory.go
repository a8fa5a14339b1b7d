// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a map-backed Store used when no cache path is configured
// and as a fake in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[memKey]memEntry
	now     func() time.Time
}

type memKey struct {
	role Role
	key  string
}

type memEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[memKey]memEntry),
		now:     time.Now,
	}
}

// Get returns the payload for (role, key), or a miss when absent or expired.
func (m *MemoryStore) Get(_ context.Context, role Role, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[memKey{role, key}]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, memKey{role, key})
		return nil, false
	}
	return e.payload, true
}

// Put stores the payload under (role, key) with expiry now+ttl.
func (m *MemoryStore) Put(_ context.Context, role Role, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey{role, key}] = memEntry{payload: value, expiresAt: m.now().Add(ttl)}
}

// Clear removes every entry.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[memKey]memEntry)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

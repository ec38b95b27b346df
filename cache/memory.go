// File: lixenwraith/gs/config/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value      string
	validUntil time.Time
}

// Memory is a process-local cache.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func openMemory(conn string, o *options) (Cache, bool, error) {
	if conn != "memory" {
		return nil, false, nil
	}
	m := NewMemory()
	m.now = o.now
	return m, true, nil
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !entry.validUntil.After(m.now()) {
		delete(m.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, validUntil: expiry(m.now(), ttl)}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

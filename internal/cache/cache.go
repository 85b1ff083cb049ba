package cache

import (
	"context"
	"sync"
	"time"
)

// KV is the small key-value surface the tracking layer needs: token
// caching and fixed-window rate counters.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr increments the counter at key and returns the new value.
	// The TTL is applied when the counter is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

type memoryEntry struct {
	value     string
	counter   int64
	expiresAt time.Time
}

// MemoryKV is an in-process KV used when Redis is not configured. Not
// suitable for multi-instance deployments.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		entries: make(map[string]*memoryEntry),
	}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.getLocked(key)
	if !ok {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = &memoryEntry{
		value:     value,
		expiresAt: expiry(ttl),
	}
	return nil
}

func (m *MemoryKV) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.getLocked(key)
	if !ok {
		entry = &memoryEntry{expiresAt: expiry(ttl)}
		m.entries[key] = entry
	}

	entry.counter++
	return entry.counter, nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}

func (m *MemoryKV) getLocked(key string) (*memoryEntry, bool) {
	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return entry, true
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

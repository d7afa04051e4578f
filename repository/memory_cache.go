package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
	storedAt  time.Time
}

// MemoryCache is an in-process CacheRepository bounded by a TTL and an entry
// cap. When full, expired entries are dropped first, then the oldest one.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache returns a cache holding at most maxEntries values for ttl
// each. A zero ttl disables expiry; maxEntries below one is treated as one.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.data[key]
	if !ok || m.expired(entry, m.now()) {
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.evict(now)
	}

	entry := memoryEntry{value: value, storedAt: now}
	if m.ttl > 0 {
		entry.expiresAt = now.Add(m.ttl)
	}
	m.data[key] = entry
	return nil
}

// Len returns the number of stored entries, expired ones included until
// they are evicted.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCache) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}

// evict must be called with the write lock held.
func (m *MemoryCache) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for key, entry := range m.data {
		if m.expired(entry, now) {
			delete(m.data, key)
			continue
		}
		if oldestKey == "" || entry.storedAt.Before(oldest) {
			oldestKey, oldest = key, entry.storedAt
		}
	}
	if len(m.data) >= m.maxEntries && oldestKey != "" {
		delete(m.data, oldestKey)
	}
}

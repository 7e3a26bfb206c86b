package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	members   map[string]struct{}
	expiresAt time.Time
}

// MemoryCache implements SetCache in process memory
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	generations map[string]int64
	now         func() time.Time
}

// NewMemoryCache creates an empty in-memory set cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:     make(map[string]*memoryEntry),
		generations: make(map[string]int64),
		now:         time.Now,
	}
}

// live returns the entry for key, dropping it when expired. Caller holds mu.
func (m *MemoryCache) live(key string) *memoryEntry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil
	}
	return e
}

func (m *MemoryCache) Members(ctx context.Context, key string) ([]string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.live(key)
	if e == nil {
		return nil, false, nil
	}
	out := make([]string, 0, len(e.members))
	for member := range e.members {
		out = append(out, member)
	}
	return out, true, nil
}

func (m *MemoryCache) Generation(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[key], nil
}

func (m *MemoryCache) Replace(ctx context.Context, key string, members []string, ttl time.Duration, generation int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generations[key] != generation {
		return false, nil
	}
	e := &memoryEntry{members: make(map[string]struct{}, len(members))}
	for _, member := range members {
		e.members[member] = struct{}{}
	}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return true, nil
}

func (m *MemoryCache) Add(ctx context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[key]++
	if e := m.live(key); e != nil {
		e.members[member] = struct{}{}
	}
	return nil
}

func (m *MemoryCache) Remove(ctx context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[key]++
	if e := m.live(key); e != nil {
		delete(e.members, member)
	}
	return nil
}

func (m *MemoryCache) Invalidate(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[key]++
	delete(m.entries, key)
	return nil
}

func (m *MemoryCache) Close() error {
	return nil
}

package store

import (
	"sync"
	"time"

	"github.com/gobwas/glob"

	errUtils "github.com/packmeta/packmeta/errors"
)

type memoryEntry struct {
	value     bool
	expiresAt time.Time // zero means no expiry
}

// InMemoryStore is an in-memory store implementation.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	hits int64
	miss int64
}

// Ensure InMemoryStore implements the Store interface.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore initializes a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]memoryEntry)}
}

// Get retrieves a value by key. Expired entries count as a miss and are
// removed lazily.
func (m *InMemoryStore) Get(key string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.data[key]
	if !exists {
		m.miss++
		return false, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.data, key)
		m.miss++
		return false, false, nil
	}
	m.hits++
	return entry.value, true, nil
}

// Put stores a key-value pair. A zero TTL means the entry never expires.
func (m *InMemoryStore) Put(key string, value bool, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

// InvalidatePattern removes all keys matching a glob pattern.
func (m *InMemoryStore) InvalidatePattern(pattern string) (int, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return 0, errUtils.ErrInvalidPattern
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.data {
		if g.Match(key) {
			delete(m.data, key)
			removed++
		}
	}
	return removed, nil
}

// Info returns diagnostics about the store.
func (m *InMemoryStore) Info() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"type":   "in-memory",
		"size":   len(m.data),
		"hits":   m.hits,
		"misses": m.miss,
	}
}

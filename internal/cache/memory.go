package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wonny/screener/pkg/logger"
)

// Memory is an in-process TTL cache. Entries expire lazily on read; no
// background eviction runs. Values are stored as JSON so numeric fields
// round-trip the same way they would through the Redis backend.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	logger  *logger.Logger

	now func() time.Time // injectable clock for tests
}

type memoryEntry struct {
	data       []byte
	insertedAt time.Time
}

// NewMemory creates an in-process cache with the given TTL
func NewMemory(ttl time.Duration, log *logger.Logger) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		logger:  log,
		now:     time.Now,
	}
}

// Get implements Store. Expired entries are removed on access.
func (m *Memory) Get(_ context.Context, key string, dest interface{}) bool {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false
	}

	if m.now().Sub(entry.insertedAt) >= m.ttl {
		m.mu.Lock()
		// Re-check under the write lock; a fresher Set may have landed
		if cur, still := m.entries[key]; still && m.now().Sub(cur.insertedAt) >= m.ttl {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return false
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		m.logger.WithError(err).WithField("key", key).Warn("Cache entry unreadable, treating as miss")
		return false
	}

	return true
}

// Set implements Store. Serialization failures degrade to a no-op.
func (m *Memory) Set(_ context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		m.logger.WithError(err).WithField("key", key).Warn("Cache entry not serializable, skipping")
		return
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, insertedAt: m.now()}
	m.mu.Unlock()
}

// Len returns the number of physically stored entries, expired or not
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

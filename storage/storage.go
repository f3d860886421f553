// Package storage is the persistence collaborator of the pipeline: a small
// key-value store with per-key expiry. Values are JSON-serialized strings;
// callers own the encoding.
package storage

import (
	"sync"
	"time"
)

// Keys used by the pipeline. Kept as constants so consumers and tests agree.
const (
	KeySelectedSources = "selectedSources"
	KeyRadius          = "numberInputValue"
	KeyFavourites      = "favourites"
)

// DefaultTTL matches the seven-day expiry the session values are stored with.
const DefaultTTL = 7 * 24 * time.Hour

// Store is a key-value store with expiry.
type Store interface {
	// Get returns the value for key, or ok=false if absent or expired.
	Get(key string) (value string, ok bool)
	// Set stores value under key. ttl <= 0 means no expiry.
	Set(key, value string, ttl time.Duration)
	// Delete removes key.
	Delete(key string)
}

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-process Store. Expired entries are dropped lazily on
// read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]entry{}, now: time.Now}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryStore) Set(key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Package cache provides an in-memory TTL cache with get-or-compute
// semantics. Staleness is bounded by entry TTL and by the version token
// embedded in each key, so callers never need an explicit invalidation API:
// when the underlying entity changes, its version token changes and the old
// entry simply stops being addressed.
package cache

import (
	"sync"
	"time"
)

// Key identifies a cache entry. Namespace and EntityID address the logical
// value; Version carries the entity's data-version token so that stale
// entries miss automatically after the entity changes.
type Key struct {
	Namespace string
	EntityID  string
	Version   string
}

// Entry holds a cached value.
type Entry struct {
	Key       Key
	Value     any
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is an in-memory cache safe for concurrent use. Concurrent misses on
// the same key may each run their compute function; last write wins. That is
// acceptable for pure reads of external state, which is the only workload
// this cache is used for.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]*Entry
	maxSize int
}

// DefaultMaxSize bounds the number of live entries before eviction.
const DefaultMaxSize = 1000

// New creates a Store with the given size limit. A non-positive limit falls
// back to DefaultMaxSize.
func New(maxSize int) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Store{
		entries: make(map[Key]*Entry),
		maxSize: maxSize,
	}
}

// Get retrieves a live entry by key. Expired entries are treated as absent.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

// Set stores a value with expiry now+ttl, evicting the oldest entry when at
// capacity.
func (s *Store) Set(key Key, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	now := time.Now()
	s.entries[key] = &Entry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Delete removes an entry from the cache.
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]*Entry)
}

// Size returns the number of entries, including expired ones not yet
// evicted.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictOldest removes the oldest entry by creation time. Caller holds mu.
func (s *Store) evictOldest() {
	var oldestKey Key
	var oldestTime time.Time
	found := false

	for key, entry := range s.entries {
		if !found || entry.CreatedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CreatedAt
			found = true
		}
	}

	if found {
		delete(s.entries, oldestKey)
	}
}

// FetchOrCompute returns the live cached value for key, or runs compute,
// stores its result with the given TTL, and returns it. Compute errors are
// returned to the caller and nothing is cached.
func FetchOrCompute[V any](s *Store, key Key, ttl time.Duration, compute func() (V, error)) (V, error) {
	if raw, ok := s.Get(key); ok {
		if value, ok := raw.(V); ok {
			return value, nil
		}
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	s.Set(key, value, ttl)
	return value, nil
}

// Package cache provides time-bounded in-memory caches.
//
// The symbol universe is small and bounded, so entries are never swept
// or evicted: they simply go stale and are overwritten on the next
// successful fetch.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store maps string keys to values with a per-entry expiry.
// Safe for concurrent use; reads take only the read lock.
type Store[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	now   func() time.Time // injectable clock for testing
}

// NewStore creates an empty Store
func NewStore[V any]() *Store[V] {
	return &Store[V]{
		items: make(map[string]entry[V]),
		now:   time.Now,
	}
}

// Get returns the cached value for key when present and unexpired
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, overwriting unconditionally
func (s *Store[V]) Put(key string, value V, ttl time.Duration) {
	expiry := s.now().Add(ttl)
	s.mu.Lock()
	s.items[key] = entry[V]{value: value, expiresAt: expiry}
	s.mu.Unlock()
}

// Len returns the number of entries, including expired ones
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot holds a single cached value with expiry, for whole-snapshot
// caches like the listed directory and the ranking lists.
type Snapshot[V any] struct {
	mu        sync.RWMutex
	value     V
	set       bool
	expiresAt time.Time
	now       func() time.Time
}

// NewSnapshot creates an empty Snapshot
func NewSnapshot[V any]() *Snapshot[V] {
	return &Snapshot[V]{now: time.Now}
}

// Get returns the cached value when present and unexpired
func (s *Snapshot[V]) Get() (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set || !s.now().Before(s.expiresAt) {
		var zero V
		return zero, false
	}
	return s.value, true
}

// Put replaces the cached value wholesale
func (s *Snapshot[V]) Put(value V, ttl time.Duration) {
	s.mu.Lock()
	s.value = value
	s.set = true
	s.expiresAt = s.now().Add(ttl)
	s.mu.Unlock()
}

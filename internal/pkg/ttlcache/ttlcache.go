// Package ttlcache provides a small in-memory cache with a fixed
// time-to-live, used to memoize responses from external APIs for the
// lifetime of the process. Entries are never refreshed in place; a Set
// replaces the entry wholesale, and expired entries are evicted lazily
// on read.
package ttlcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Cache is a string-keyed cache holding values of type V.
// The zero value is not usable; construct with New or NewWithClock.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration) *Cache[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock creates a cache with an injectable clock so tests can
// simulate the passage of time.
func NewWithClock[V any](ttl time.Duration, now func() time.Time) *Cache[V] {
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached value for key. An entry is valid iff
// now - insertedAt <= TTL; an expired entry is removed as a side effect
// and reported as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// GetWithTimestamp is Get plus the entry's insertion time, for callers
// that surface data freshness.
func (c *Cache[V]) GetWithTimestamp(key string) (V, time.Time, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, time.Time{}, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		delete(c.entries, key)
		return zero, time.Time{}, false
	}
	return e.value, e.insertedAt, true
}

// Set stores value under key, stamped with the current time. Any
// existing entry for key is silently replaced.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, insertedAt: c.now()}
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries currently held, including any that
// have expired but not yet been evicted by a read.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

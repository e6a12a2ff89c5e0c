// Package cache provides a thread-safe in-memory cache whose entries expire
// after a fixed time to live.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// TimedCache maps keys to values with time-based expiry. Entries older than
// the TTL are treated as absent by Get but are not removed until they are
// overwritten or CleanupExpired runs, so Len counts them. All methods are safe
// for concurrent use.
type TimedCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
}

// New creates a TimedCache with the given TTL.
func New[K comparable, V any](ttl time.Duration) *TimedCache[K, V] {
	return &TimedCache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
	}
}

// Insert stores a value under the key, replacing any previous entry and
// resetting its timestamp.
func (c *TimedCache[K, V]) Insert(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, insertedAt: time.Now()}
}

// Get returns the value for the key, or false if the key is absent or its
// entry has outlived the TTL.
func (c *TimedCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Since(e.insertedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// ContainsKey reports whether the key holds an unexpired entry.
func (c *TimedCache[K, V]) ContainsKey(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Remove deletes the entry for the key, if any.
func (c *TimedCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear deletes all entries.
func (c *TimedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}

// CleanupExpired removes every entry older than the TTL. Expired entries are
// otherwise ignored lazily by Get, so this only matters for reclaiming memory.
func (c *TimedCache[K, V]) CleanupExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of stored entries, including expired ones that have
// not been cleaned up yet.
func (c *TimedCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IsEmpty reports whether the cache holds no entries at all.
func (c *TimedCache[K, V]) IsEmpty() bool {
	return c.Len() == 0
}

// TTL returns the configured time to live.
func (c *TimedCache[K, V]) TTL() time.Duration {
	return c.ttl
}

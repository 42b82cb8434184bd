// Package cache provides a small in-process TTL cache used for short-lived
// read-side results such as leaderboards. Entries are point-in-time copies;
// staleness within the TTL window is acceptable to callers.
package cache

import (
	"sync"
	"time"

	"github.com/dispatchly/commission/internal/clock"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a concurrency-safe map whose entries expire after a fixed
// duration. Expired entries are dropped lazily on read and on Set.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[K]entry[V]
}

func NewTTLCache[K comparable, V any](ttl time.Duration, clk clock.Clock) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:     ttl,
		clock:   clk,
		entries: make(map[K]entry[V]),
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.clock.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

// Invalidate drops one key, typically after a write that makes the cached
// view stale.
func (c *TTLCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

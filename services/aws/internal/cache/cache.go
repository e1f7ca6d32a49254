// Package cache provides the TTL cache shared by the API key stores.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	expiration time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return now.After(e.expiration)
}

// TTL is a mutex-guarded in-memory cache whose entries expire after a TTL.
// When maxSize is reached the entry closest to expiry is evicted.
type TTL[V any] struct {
	entries    map[string]*entry[V]
	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time
	mu         sync.Mutex
}

// New creates a cache with the given default TTL. A maxSize of 0 means unbounded.
func New[V any](defaultTTL time.Duration, maxSize int) *TTL[V] {
	return &TTL[V]{
		entries:    make(map[string]*entry[V]),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. A ttl of 0 uses the default TTL.
func (c *TTL[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl == 0 {
		ttl = c.defaultTTL
	}
	now := c.now()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLocked(now)
	}

	c.entries[key] = &entry[V]{value: value, expiration: now.Add(ttl)}
}

// evictLocked drops expired entries and, if the cache is still full, the
// entry expiring soonest.
func (c *TTL[V]) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}

	var victim string
	var soonest time.Time
	for k, e := range c.entries {
		if victim == "" || e.expiration.Before(soonest) {
			victim, soonest = k, e.expiration
		}
	}
	delete(c.entries, victim)
}

// Delete removes key.
func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
}

// Len returns the number of live entries, pruning expired ones.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}

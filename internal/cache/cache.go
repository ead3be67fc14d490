// Package cache provides a small in-memory TTL cache for on-demand
// analysis results. Expired entries are kept until overwritten so callers
// can fall back to stale data when a recompute fails.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	v   any
	exp time.Time
}

// TTLCache is a string-keyed cache with a fixed time-to-live per entry.
type TTLCache struct {
	mu  sync.RWMutex
	m   map[string]entry
	ttl time.Duration
	now func() time.Time
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *TTLCache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a cache driven by the given clock instead of the
// wall clock.
func NewWithClock(ttl time.Duration, now func() time.Time) *TTLCache {
	return &TTLCache{m: make(map[string]entry), ttl: ttl, now: now}
}

// Get returns the value for key if it is present and fresh.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.exp) {
		return nil, false
	}
	return e.v, true
}

// GetStale returns the value for key even when it has expired. The second
// result reports presence, the third freshness.
func (c *TTLCache) GetStale(key string) (any, bool, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, false
	}
	return e.v, true, !c.now().After(e.exp)
}

// Set stores the value for key with a fresh TTL.
func (c *TTLCache) Set(key string, v any) {
	c.mu.Lock()
	c.m[key] = entry{v: v, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

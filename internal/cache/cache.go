// Package cache is a process-local result cache with single-flight loading:
// concurrent requests for the same key share one upstream call. Nothing is
// persisted; the server keeps no state across restarts by design.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes successful loads by key. Failed loads are not cached, so a
// transient upstream failure does not poison a key.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
	group   singleflight.Group
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Do returns the cached value for key, or runs load exactly once (even under
// concurrent callers) and caches its result on success.
func (c *Cache) Do(key string, load func() (any, error)) (any, error) {
	c.mu.RLock()
	if v, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the group: a concurrent caller may have stored it.
		c.mu.RLock()
		if v, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		v, err := load()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

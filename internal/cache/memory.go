package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the fast layer: completion responses and audio bytes
// for the current process lifetime.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL and
// janitor interval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the cached bytes for key, if present and unexpired
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	return val.([]byte), true
}

// Set stores value under key. A zero TTL uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// Delete removes key from the cache
func (c *MemoryCache) Delete(key string) error {
	c.store.Delete(key)
	return nil
}

// Clear drops every entry
func (c *MemoryCache) Clear() error {
	c.store.Flush()
	return nil
}

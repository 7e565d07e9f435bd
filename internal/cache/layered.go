package cache

import "time"

// LayeredCache is a write-through memory-over-disk cache. Reads hit
// memory first and promote disk hits back into memory.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates the standard two-layer cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory, then disk. A disk hit is promoted into the
// memory layer with the memory default TTL.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set writes through to both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.disk.Set(key, value, ttl); err != nil {
		return err
	}
	return c.memory.Set(key, value, ttl)
}

// Delete removes key from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear drops both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DiskCache is the persistent layer. Entries survive restarts, which
// keeps repeated eval runs from re-billing identical completions.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache rooted at dir with the given
// default TTL.
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl}
}

type diskEntry struct {
	Payload   []byte    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the cached bytes for key. Expired entries are removed
// on read.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Payload, true
}

// Set stores value under key. A zero TTL uses the cache default.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	data, err := json.Marshal(diskEntry{
		Payload:   value,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// Write-then-rename so a crash never leaves a torn entry
	path := c.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit cache entry: %w", err)
	}

	return nil
}

// Delete removes key from the cache
func (c *DiskCache) Delete(key string) error {
	return os.Remove(c.path(key))
}

// Clear removes the whole cache directory
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// path maps a key to a filesystem-safe file name. Keys carry colons,
// so they are hashed rather than used directly.
func (c *DiskCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

package cache

import (
	"errors"
	"time"
)

// LayeredCache checks a fast layer before a slow one
type LayeredCache struct {
	fast Cache
	slow Cache
}

// NewLayeredCache combines two caches, fast first
func NewLayeredCache(fast, slow Cache) *LayeredCache {
	return &LayeredCache{fast: fast, slow: slow}
}

// NewMemoryDiskCache is the usual memory-over-disk setup
func NewMemoryDiskCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return NewLayeredCache(
		NewMemoryCache(memoryTTL, 10*time.Minute),
		NewDiskCache(diskDir, diskTTL),
	)
}

// Get checks the fast layer, then promotes hits from the slow layer
func (c *LayeredCache) Get(key string) (string, bool) {
	if val, found := c.fast.Get(key); found {
		return val, true
	}

	if val, found := c.slow.Get(key); found {
		_ = c.fast.Set(key, val, 0)
		return val, true
	}

	return "", false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value string, ttl time.Duration) error {
	return errors.Join(c.fast.Set(key, value, ttl), c.slow.Set(key, value, ttl))
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.fast.Delete(key), c.slow.Delete(key))
}

// Clear empties both layers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.fast.Clear(), c.slow.Clear())
}

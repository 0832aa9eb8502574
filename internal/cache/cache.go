// Package cache stores lemma lookups so repeated words skip the morphology backend.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for string caching
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a versioned, filesystem-safe cache key
func Key(namespace, s string) string {
	hash := sha256.Sum256([]byte(s))
	return "railvoice-" + namespace + "-v1-" + hex.EncodeToString(hash[:16])
}

// Package cache stores raw dataset text so repeated runs against the same
// source skip the network. Entries are opaque bytes keyed by Key(location).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract shared by the memory, disk and layered caches
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a dataset location (URL or path)
func Key(location string) string {
	hash := sha256.Sum256([]byte(location))
	return "chronicle:v1:" + hex.EncodeToString(hash[:])
}

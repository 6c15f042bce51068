// Package cache provides the result cache behind the diagram data service:
// an in-process TTL store with LRU eviction for single-node deployments and a
// Redis-backed store when several processes must share one cache.
package cache

import (
	"context"
	"time"
)

// Store is a string cache with per-entry TTLs. A ttl of zero or less means
// the entry never expires.
type Store interface {
	// Get returns the cached value and whether it was present and unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Close releases the store's resources.
	Close() error
}

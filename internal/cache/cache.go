// Package cache provides a small string key/value cache with per-entry TTLs,
// backed either by process memory or by Redis.
package cache

import (
	"context"
	"time"
)

// Cache stores string values under string keys. A zero TTL means the entry
// never expires.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

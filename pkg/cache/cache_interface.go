package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer, so Redis can be swapped for
// an in-memory or no-op implementation.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false on a miss, in which case dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON-encoded) with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}

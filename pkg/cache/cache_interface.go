package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer. Implementations must treat a
// miss as (false, nil) and leave dest untouched.
type Cache interface {
	// Get unmarshals the cached JSON value into dest.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Increment bumps an integer counter, creating it at 1.
	Increment(ctx context.Context, key string) (int64, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error

	Ping(ctx context.Context) error
}

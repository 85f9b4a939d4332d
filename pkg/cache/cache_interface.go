package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Keeping it an interface lets
// tests swap in an in-memory fake.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns found=false on a cache miss; dest is untouched then.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}

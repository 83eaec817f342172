// Package cache provides the response-cache contract used by the HTTP client
// and its built-in stores: an in-memory TTL store and a no-op store for
// disabled caching.
package cache

import (
	"context"
	"time"
)

// Store defines the core interface for cache operations.
// All implementations must be thread-safe and context-aware. The client
// treats stored values as opaque bytes; entries expire after their TTL and
// expired entries are reclaimed lazily on access, never by a background
// sweeper.
//
// Example usage:
//
//	store := cache.NewMemoryStore()
//	err := store.Set(ctx, key, payload, 5*time.Minute)
//	data, err := store.Get(ctx, key)
//	if errors.Is(err, cache.ErrNotFound) {
//	    // miss: fetch from origin
//	}
type Store interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrNotFound if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the specified TTL.
	// The entry expires at now+ttl; a zero or negative ttl stores an entry
	// that is already expired. Overwrites existing values.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove deletes a value from the cache.
	// Returns nil if the key doesn't exist (idempotent operation).
	Remove(ctx context.Context, key string) error

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error
}

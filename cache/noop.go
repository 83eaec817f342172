package cache

import (
	"context"
	"time"
)

// NoopStore is a Store that never holds anything: every Get misses and the
// mutating operations succeed without effect. The client uses it when
// caching is disabled so the execution path stays identical either way.
type NoopStore struct{}

// Ensure NoopStore implements the interface
var _ Store = (*NoopStore)(nil)

// NewNoopStore creates a store that caches nothing.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

// Get always reports a miss.
func (*NoopStore) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, ErrNotFound
}

// Set discards the value.
func (*NoopStore) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

// Remove does nothing.
func (*NoopStore) Remove(_ context.Context, _ string) error {
	return nil
}

// Clear does nothing.
func (*NoopStore) Clear(_ context.Context) error {
	return nil
}

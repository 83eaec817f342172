package cache

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a cache key doesn't exist or has expired.
// This is not a fatal error - callers should handle cache misses gracefully
// via errors.Is().
var ErrNotFound = errors.New("cache: key not found")

// OperationError represents a failure inside a cache operation
// (Get, Set, Remove, Clear). The built-in stores never produce one;
// custom stores backed by external systems should wrap their failures
// in it so the client can classify them.
type OperationError struct {
	Op  string // Operation that failed (e.g., "get", "set")
	Key string // Cache key involved in the operation
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("cache operation error: %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new operation error.
func NewOperationError(op, key string, err error) *OperationError {
	return &OperationError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

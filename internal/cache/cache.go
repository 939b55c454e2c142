// Package cache provides the TTL key-value store backing API response
// caching. Entries are independent and idempotently overwritable, so
// implementations only need per-key consistency under concurrent use.
package cache

import (
	"context"
	"time"
)

// Store is the persistence boundary for cached responses. Any keyed store
// with TTL support can back it; the client never depends on a specific
// engine.
type Store interface {
	// Get returns the cached value and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key beginning with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

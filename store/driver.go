package store

import (
	"context"
	"time"
)

// Driver is an interface for the key-value store driver.
// All operations are single network round-trips against the remote
// service. Drivers do not retry; callers decide retry policy.
type Driver interface {
	// Get returns the raw value for key. The boolean reports whether
	// the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. A zero ttl keeps the key forever.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes the given keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Keys returns all keys matching a glob pattern, e.g. "session:*".
	Keys(ctx context.Context, pattern string) ([]string, error)

	// MGet bulk-fetches values. Missing keys yield nil entries.
	MGet(ctx context.Context, keys ...string) ([]*string, error)

	// Ping round-trips the connection.
	Ping(ctx context.Context) error

	Close() error
}

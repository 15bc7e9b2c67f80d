package interfaces

import (
	"context"
	"time"
)

// CacheStore is a key-value store with timestamped entries. Expiry policy
// belongs to the caller: Get reports the entry's age and the caller decides
// whether it is still usable. Missing, empty, or malformed entries read as
// models.ErrCacheMiss, never as a failure.
type CacheStore interface {
	// Get unmarshals the payload for key into dest and returns the entry age.
	Get(ctx context.Context, key string, dest any) (time.Duration, error)

	// Put stores the payload for key with the current UTC timestamp.
	Put(ctx context.Context, key string, value any) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// SweepExpired removes entries older than maxAge and returns the count.
	SweepExpired(ctx context.Context, maxAge time.Duration) (int, error)

	Close() error
}

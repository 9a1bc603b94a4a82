package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes hook delivery for one chart across replicas.
// Hooks for the same chart must never run concurrently; a single process
// gets that from session.Serializer alone.
type DistributedLocker interface {
	// Lock blocks until the lock for key (a chart ID) is acquired or ctx is done.
	// The lock expires after ttl if never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

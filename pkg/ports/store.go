package ports

import (
	"context"

	"github.com/aretw0/sonisync/pkg/domain"
)

// SnapshotStore persists the last observed fingerprint of each chart.
// The in-process registry stays authoritative; the store mirrors it for
// inspection across processes.
type SnapshotStore interface {
	// Save persists the fingerprint for a given chart ID.
	Save(ctx context.Context, chartID string, snap domain.Snapshot) error

	// Load retrieves the fingerprint for a given chart ID.
	// Returns domain.ErrSnapshotNotFound if none is stored.
	Load(ctx context.Context, chartID string) (domain.Snapshot, error)

	// Delete removes the fingerprint for a given chart ID.
	Delete(ctx context.Context, chartID string) error

	// List returns the IDs of all stored charts.
	List(ctx context.Context) ([]string, error)
}

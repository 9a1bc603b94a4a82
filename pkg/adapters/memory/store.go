package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/sonisync/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Snapshot),
	}
}

// Save persists a copy of the fingerprint.
func (s *Store) Save(ctx context.Context, chartID string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[chartID] = domain.SnapshotFromBytes(snap.Bytes())
	return nil
}

// Load retrieves the fingerprint.
func (s *Store) Load(ctx context.Context, chartID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[chartID]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return snap, nil
}

// Delete removes the fingerprint.
func (s *Store) Delete(ctx context.Context, chartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, chartID)
	return nil
}

// List returns all stored chart IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

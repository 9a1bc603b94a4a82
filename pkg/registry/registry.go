// Package registry holds the per-chart reconciliation state.
package registry

import (
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
)

// Record is the reconciliation state of one live host chart.
type Record struct {
	ChartID string

	// Engine is exclusively owned by the record and cleaned up with it.
	Engine ports.Sonifier

	Target domain.TargetKind

	// Stacked is true when the engine was built in stack mode.
	Stacked bool

	// VisibleSeries holds the host series indices currently audible.
	VisibleSeries []int

	// LastSnapshot is the host state observed at the end of the last
	// successful reconciliation.
	LastSnapshot domain.Snapshot

	// ScalesSynced is true once axis bounds came from layout scales.
	ScalesSynced bool

	reconciling bool
	pending     bool
}

// Begin marks the record as reconciling. It returns false when a
// reconciliation is already in progress; the caller's update is then
// remembered and reported by End.
func (r *Record) Begin() bool {
	if r.reconciling {
		r.pending = true
		return false
	}
	r.reconciling = true
	return true
}

// End clears the mark set by Begin. It reports whether an update arrived
// while reconciling, in which case the host must be reconciled again.
func (r *Record) End() bool {
	r.reconciling = false
	pending := r.pending
	r.pending = false
	return pending
}

// Show marks a series audible. It is a no-op when already visible.
func (r *Record) Show(series int) {
	if !slices.Contains(r.VisibleSeries, series) {
		r.VisibleSeries = append(r.VisibleSeries, series)
	}
}

// Hide removes a series from the audible set.
func (r *Record) Hide(series int) {
	r.VisibleSeries = slices.DeleteFunc(r.VisibleSeries, func(i int) bool { return i == series })
}

// Registry maps chart identity to its record. Destroyed charts leave a
// tombstone so late hooks cannot resurrect them.
type Registry struct {
	mu        sync.RWMutex
	records   map[string]*Record
	destroyed map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		records:   make(map[string]*Record),
		destroyed: make(map[string]struct{}),
	}
}

// Register stores a record, replacing any record with the same chart ID.
func (r *Registry) Register(rec *Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ChartID] = rec
	delete(r.destroyed, rec.ChartID)
}

// Revive clears the tombstone of a destroyed chart ID so a new chart
// instance can reuse it. It reports whether a tombstone was cleared.
func (r *Registry) Revive(chartID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.destroyed[chartID]; !ok {
		return false
	}
	delete(r.destroyed, chartID)
	return true
}

// Lookup returns the record for a chart.
func (r *Registry) Lookup(chartID string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[chartID]
	return rec, ok
}

// Unregister drops the record and tombstones the chart ID. It returns the
// dropped record, if any.
func (r *Registry) Unregister(chartID string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[chartID]
	delete(r.records, chartID)
	r.destroyed[chartID] = struct{}{}
	return rec, ok
}

// State reports the lifecycle state of a chart.
func (r *Registry) State(chartID string) domain.Lifecycle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.records[chartID]; ok {
		return domain.LifecycleActive
	}
	if _, ok := r.destroyed[chartID]; ok {
		return domain.LifecycleDestroyed
	}
	return domain.LifecycleUninitialized
}

// IDs returns the IDs of all active charts, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of active charts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot is a serialized fingerprint of the host's series values, series
// labels, per-series visibility and category labels. Two snapshots are
// equal iff their serialized forms are equal. Snapshots are values: a new
// one is taken on every reconciliation attempt and never mutated.
type Snapshot struct {
	raw []byte
}

type snapshotSeriesOut struct {
	Data    []Value `json:"data"`
	Label   string  `json:"label,omitempty"`
	Visible bool    `json:"visible"`
}

type snapshotOut struct {
	Datasets []snapshotSeriesOut `json:"datasets"`
	Labels   []string            `json:"labels"`
}

// SnapshotSeries is the decoded form of one series inside a snapshot.
// Values stay raw so prefixes can be compared byte for byte.
type SnapshotSeries struct {
	Data    []json.RawMessage `json:"data"`
	Label   string            `json:"label,omitempty"`
	Visible bool              `json:"visible"`
}

// SnapshotDoc is the decoded form of a snapshot.
type SnapshotDoc struct {
	Datasets []SnapshotSeries `json:"datasets"`
	Labels   []string         `json:"labels"`
}

// TakeSnapshot serializes the observable host state. visible reports the
// host visibility of the series at index i.
func TakeSnapshot(datasets []Dataset, labels []string, visible func(i int) bool) (Snapshot, error) {
	doc := snapshotOut{
		Datasets: make([]snapshotSeriesOut, len(datasets)),
		Labels:   labels,
	}
	for i, ds := range datasets {
		doc.Datasets[i] = snapshotSeriesOut{
			Data:    ds.Data,
			Label:   ds.Label,
			Visible: visible(i),
		}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return Snapshot{raw: raw}, nil
}

// SnapshotFromBytes wraps a previously serialized fingerprint.
func SnapshotFromBytes(raw []byte) Snapshot {
	return Snapshot{raw: bytes.Clone(raw)}
}

// Bytes returns a copy of the serialized form.
func (s Snapshot) Bytes() []byte { return bytes.Clone(s.raw) }

// IsZero reports whether the snapshot was never taken.
func (s Snapshot) IsZero() bool { return len(s.raw) == 0 }

// Equal compares serialized forms. Zero snapshots never compare equal.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.IsZero() || o.IsZero() {
		return false
	}
	return bytes.Equal(s.raw, o.raw)
}

// Decode parses the fingerprint back into its structured form.
func (s Snapshot) Decode() (*SnapshotDoc, error) {
	if s.IsZero() {
		return nil, fmt.Errorf("decode snapshot: %w", ErrSnapshotNotFound)
	}
	var doc SnapshotDoc
	if err := json.Unmarshal(s.raw, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

func (s Snapshot) String() string { return string(s.raw) }

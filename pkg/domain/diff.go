package domain

import (
	"bytes"
	"encoding/json"
)

// SnapshotDiff is the structural difference between two decoded snapshots.
type SnapshotDiff struct {
	// Structural is set when the series count, a series label or a series
	// visibility flag changed.
	Structural bool

	// LabelsRewritten is set when the category labels changed other than by
	// growing at the end.
	LabelsRewritten bool

	// LabelsAppended holds category labels added at the end.
	LabelsAppended []string

	// Changed lists the indices of series whose data differs.
	Changed []int

	// Appends holds the series that grew while keeping their prefix intact.
	Appends []SeriesDelta
}

// SeriesDelta represents new values appended to one series.
type SeriesDelta struct {
	Index       int
	PriorLength int
	Appended    []json.RawMessage
}

// Diff calculates the difference between two decoded snapshots.
// Both must be non-nil.
func Diff(old, new *SnapshotDoc) *SnapshotDiff {
	diff := &SnapshotDiff{}

	diff.LabelsAppended, diff.LabelsRewritten = diffLabels(old.Labels, new.Labels)

	if len(old.Datasets) != len(new.Datasets) {
		diff.Structural = true
		return diff
	}

	for i := range new.Datasets {
		o, n := old.Datasets[i], new.Datasets[i]
		if o.Label != n.Label || o.Visible != n.Visible {
			diff.Structural = true
		}
		if sameValues(o.Data, n.Data) {
			continue
		}
		diff.Changed = append(diff.Changed, i)
		if delta, ok := diffSeries(i, o.Data, n.Data); ok {
			diff.Appends = append(diff.Appends, delta)
		}
	}
	return diff
}

// IsEmpty reports whether the two snapshots describe the same data.
func (d *SnapshotDiff) IsEmpty() bool {
	return !d.Structural &&
		!d.LabelsRewritten &&
		len(d.LabelsAppended) == 0 &&
		len(d.Changed) == 0
}

func diffLabels(old, new []string) ([]string, bool) {
	if len(new) < len(old) {
		return nil, true
	}
	for i := range old {
		if old[i] != new[i] {
			return nil, true
		}
	}
	if len(new) == len(old) {
		return nil, false
	}
	return new[len(old):], false
}

// diffSeries detects a pure append: the new series is longer and the old
// series is a byte-identical prefix of it.
func diffSeries(index int, old, new []json.RawMessage) (SeriesDelta, bool) {
	if len(new) <= len(old) {
		return SeriesDelta{}, false
	}
	if !sameValues(old, new[:len(old)]) {
		return SeriesDelta{}, false
	}
	return SeriesDelta{
		Index:       index,
		PriorLength: len(old),
		Appended:    new[len(old):],
	}, true
}

func sameValues(a, b []json.RawMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

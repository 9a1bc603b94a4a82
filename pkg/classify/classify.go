// Package classify compares host snapshots and selects the update strategy
// used to replay a change into the sonification engine.
package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/sonisync/internal/logging"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/shape"
)

// LiveState is what the classifier needs to know about the host and the
// chart record beyond the two snapshots.
type LiveState struct {
	// ScalesSynced is true once axis bounds were derived from layout scales.
	ScalesSynced bool

	// ScalesAvailable is true once the host's layout pass has computed bounds.
	ScalesAvailable bool
}

var errNotAppend = errors.New("not a pure append")

// Classifier selects a verdict for a pair of snapshots.
type Classifier struct {
	logger *slog.Logger
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithLogger configures a logger for classification fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify compares prev and cur.
//
//   - Unchanged: identical snapshots, nothing to calibrate.
//   - ScaleOnly: identical snapshots, but layout bounds became available and
//     were never synced.
//   - PureAppend: exactly one series grew with an intact prefix.
//   - Replace: anything else, including any failure while diffing.
func (c *Classifier) Classify(prev, cur domain.Snapshot, live LiveState) domain.Verdict {
	if prev.Equal(cur) {
		if !live.ScalesSynced && live.ScalesAvailable {
			return domain.Verdict{Kind: domain.VerdictScaleOnly}
		}
		return domain.Verdict{Kind: domain.VerdictUnchanged}
	}

	desc, err := DetectAppend(prev, cur)
	if err != nil {
		c.logger.Debug("Change is not a pure append, falling back to replace", "err", err)
		return domain.Verdict{Kind: domain.VerdictReplace}
	}
	return domain.Verdict{Kind: domain.VerdictPureAppend, Append: desc}
}

// Classify uses a Classifier without logging.
func Classify(prev, cur domain.Snapshot, live LiveState) domain.Verdict {
	return New().Classify(prev, cur, live)
}

// DetectAppend returns the append descriptor when cur differs from prev only
// by values appended to the end of exactly one series (and, optionally, the
// matching category labels). Any other difference, or any failure while
// comparing, is reported as an error.
func DetectAppend(prev, cur domain.Snapshot) (desc *domain.AppendDescriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			desc, err = nil, fmt.Errorf("append detection panicked: %v", r)
		}
	}()

	old, err := prev.Decode()
	if err != nil {
		return nil, err
	}
	next, err := cur.Decode()
	if err != nil {
		return nil, err
	}

	diff := domain.Diff(old, next)
	switch {
	case diff.Structural:
		return nil, fmt.Errorf("%w: series structure or visibility changed", errNotAppend)
	case diff.LabelsRewritten:
		return nil, fmt.Errorf("%w: category labels rewritten", errNotAppend)
	case len(diff.Changed) != 1:
		return nil, fmt.Errorf("%w: %d series changed", errNotAppend, len(diff.Changed))
	case len(diff.Appends) != 1:
		return nil, fmt.Errorf("%w: series %d was rewritten", errNotAppend, diff.Changed[0])
	}

	delta := diff.Appends[0]
	if len(diff.LabelsAppended) > len(delta.Appended) {
		return nil, fmt.Errorf("%w: %d labels added for %d values", errNotAppend, len(diff.LabelsAppended), len(delta.Appended))
	}

	desc = &domain.AppendDescriptor{
		SeriesIndex: delta.Index,
		PriorLength: delta.PriorLength,
		NewPoints:   make([]domain.Point, 0, len(delta.Appended)),
		NewLabels:   diff.LabelsAppended,
	}
	if len(next.Datasets) > 1 {
		series := next.Datasets[delta.Index]
		desc.CategoryName = shape.GroupName(domain.Dataset{Label: series.Label}, delta.Index)
	}
	for j, raw := range delta.Appended {
		var v domain.Value
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode appended value: %w", err)
		}
		desc.NewPoints = append(desc.NewPoints, shape.PointFor(v, delta.PriorLength+j, delta.Index))
	}
	return desc, nil
}

// Package shape converts the host's per-series value arrays into the
// sonification engine's point data.
package shape

import (
	"fmt"

	"github.com/aretw0/sonisync/pkg/domain"
)

// BoxFormatter reshapes box-plot datasets. The result must already carry
// point tags.
type BoxFormatter func(datasets []domain.Dataset) (domain.Payload, error)

// Result is the output of one normalization.
type Result struct {
	Payload domain.Payload

	// Scrubbed holds the labels extracted from label-bearing points, in
	// point order. Always nil for scatter targets.
	Scrubbed []string
}

// Normalizer converts host datasets to sonification payloads.
type Normalizer struct {
	box BoxFormatter
}

// Option configures the Normalizer.
type Option func(*Normalizer)

// WithBoxFormatter replaces the default box-plot formatter.
func WithBoxFormatter(f BoxFormatter) Option {
	return func(n *Normalizer) {
		n.box = f
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{box: FormatBoxes}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts datasets for the given target kind. It returns
// domain.ErrEmptyData when no series holds a point.
func (n *Normalizer) Normalize(datasets []domain.Dataset, target domain.TargetKind) (Result, error) {
	if target == domain.TargetBox {
		payload, err := n.box(datasets)
		if err != nil {
			return Result{}, fmt.Errorf("box formatter: %w", err)
		}
		if payload.Empty() {
			return Result{}, domain.ErrEmptyData
		}
		return Result{Payload: payload}, nil
	}

	var res Result
	if len(datasets) == 1 {
		points, labels := convertSeries(datasets[0].Data, 0, target)
		res.Payload.Series = [][]domain.Point{points}
		res.Scrubbed = labels
	} else {
		res.Payload.Groups = make([]string, 0, len(datasets))
		res.Payload.Series = make([][]domain.Point, 0, len(datasets))
		for g, ds := range datasets {
			res.Payload.Groups = append(res.Payload.Groups, GroupName(ds, g))
			points, labels := convertSeries(ds.Data, g, target)
			res.Payload.Series = append(res.Payload.Series, points)
			if res.Scrubbed == nil {
				res.Scrubbed = labels
			}
		}
	}

	if res.Payload.Empty() {
		return Result{}, domain.ErrEmptyData
	}
	return res, nil
}

// GroupName returns the series label, or "Group n" (1-based) when absent.
func GroupName(ds domain.Dataset, index int) string {
	if ds.Label != "" {
		return ds.Label
	}
	return fmt.Sprintf("Group %d", index+1)
}

func convertSeries(values []domain.Value, group int, target domain.TargetKind) ([]domain.Point, []string) {
	points := make([]domain.Point, len(values))
	var labels []string
	for i, v := range values {
		points[i] = PointFor(v, i, group)
		if v.Kind == domain.ValuePoint && v.Labeled && target != domain.TargetScatter {
			labels = append(labels, v.Label)
		}
	}
	return points, labels
}

// PointFor converts one host value at position index of series group.
// Label-bearing points are placed at their position index.
func PointFor(v domain.Value, index, group int) domain.Point {
	p := domain.Point{
		Kind:   domain.PointXY,
		X:      float64(index),
		Custom: domain.PointRef{Group: group, Index: index},
	}
	switch v.Kind {
	case domain.ValueNumber:
		p.Y = v.Num
	case domain.ValueNull:
		p.Missing = true
	case domain.ValueRange:
		p.Kind = domain.PointRange
		p.Low, p.High = v.Range[0], v.Range[1]
		if p.Low > p.High {
			p.Low, p.High = p.High, p.Low
		}
	case domain.ValuePoint:
		if !v.Labeled {
			p.X = v.X
		}
		p.Y = v.Y
	case domain.ValueSamples:
		box, ok := summarize(v.Samples)
		if !ok {
			p.Missing = true
			break
		}
		box.X, box.Custom = p.X, p.Custom
		p = box
	}
	return p
}

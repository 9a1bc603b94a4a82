package classify

import (
	"github.com/aretw0/sonisync/pkg/domain"
)

// StackedBounds computes min/max over positions i of the sum of y values of
// the visible series at i. Missing values contribute nothing. The position
// count is taken from the first series. ok is false for ungrouped payloads
// or when no series is visible.
func StackedBounds(p domain.Payload, visible func(series int) bool) (r domain.Range, ok bool) {
	if !p.Grouped() || len(p.Series) == 0 {
		return domain.Range{}, false
	}

	var shown []int
	for s := range p.Series {
		if visible(s) {
			shown = append(shown, s)
		}
	}
	n := len(p.Series[0])
	if n == 0 || len(shown) == 0 {
		return domain.Range{}, false
	}

	for i := 0; i < n; i++ {
		var total float64
		for _, s := range shown {
			if i >= len(p.Series[s]) {
				continue
			}
			if v, ok := p.Series[s][i].Value(); ok {
				total += v
			}
		}
		if i == 0 {
			r = domain.Range{Min: total, Max: total}
			continue
		}
		r.Min = min(r.Min, total)
		r.Max = max(r.Max, total)
	}
	return r, true
}

// CorrectStacked replaces the y bounds with the visible-only stacked range
// for stacked y layouts. Bounds the host declared explicitly are kept.
func CorrectStacked(axes domain.Axes, yOpt domain.AxisOption, p domain.Payload, visible func(series int) bool) domain.Axes {
	if !yOpt.Stacked {
		return axes
	}
	r, ok := StackedBounds(p, visible)
	if !ok {
		return axes
	}
	if yOpt.Min == nil {
		axes.Y.Minimum = domain.Float(r.Min)
	}
	if yOpt.Max == nil {
		axes.Y.Maximum = domain.Float(r.Max)
	}
	return axes
}

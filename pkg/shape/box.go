package shape

import (
	"slices"

	"github.com/aretw0/sonisync/pkg/domain"
)

// FormatBoxes is the default BoxFormatter. Sample arrays (and range pairs,
// read as two samples) become five-number summaries with 1.5·IQR whiskers.
// Null entries are skipped.
func FormatBoxes(datasets []domain.Dataset) (domain.Payload, error) {
	var payload domain.Payload
	if len(datasets) > 1 {
		payload.Groups = make([]string, 0, len(datasets))
	}
	for g, ds := range datasets {
		if payload.Grouped() {
			payload.Groups = append(payload.Groups, GroupName(ds, g))
		}
		points := make([]domain.Point, 0, len(ds.Data))
		for i, v := range ds.Data {
			var samples []float64
			switch v.Kind {
			case domain.ValueSamples:
				samples = v.Samples
			case domain.ValueRange:
				samples = v.Range[:]
			case domain.ValueNumber:
				samples = []float64{v.Num}
			default:
				continue
			}
			box, ok := summarize(samples)
			if !ok {
				continue
			}
			box.X = float64(i)
			box.Custom = domain.PointRef{Group: g, Index: i}
			points = append(points, box)
		}
		payload.Series = append(payload.Series, points)
	}
	return payload, nil
}

func summarize(samples []float64) (domain.Point, bool) {
	if len(samples) == 0 {
		return domain.Point{}, false
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	n := len(sorted)
	lower, upper := sorted[:n/2], sorted[(n+1)/2:]
	if n == 1 {
		lower, upper = sorted, sorted
	}
	q1, med, q3 := median(lower), median(sorted), median(upper)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	p := domain.Point{Kind: domain.PointBox, Q1: q1, Median: med, Q3: q3}
	p.Low, p.High = sorted[n-1], sorted[0]
	for _, s := range sorted {
		if s < lo || s > hi {
			p.Outliers = append(p.Outliers, s)
			continue
		}
		p.Low = min(p.Low, s)
		p.High = max(p.High, s)
	}
	return p, true
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

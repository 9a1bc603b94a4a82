// Package axes derives the sonification engine's axis configuration from the
// host's declared axis options and, when those are silent, from the bounds
// computed by the host's layout engine.
package axes

import (
	"slices"

	"github.com/aretw0/sonisync/pkg/domain"
)

// Default axis labels for word clouds, which have no natural axis titles.
const (
	WordCloudXLabel = "Word"
	WordCloudYLabel = "Emphasis"
)

// Input gathers everything the deriver reads from the host.
type Input struct {
	HostKind string
	Target   domain.TargetKind
	Options  domain.AxisOptions
	Scales   domain.ScaleBounds

	// Labels are the host's category labels.
	Labels []string

	// Scrubbed are labels extracted from label-bearing points by the
	// normalizer. They are used only when the host declares no labels.
	Scrubbed []string

	Lang string
}

// Derive computes the axes without caller overrides. Apply overrides last
// with Merge, after any other correction.
func Derive(in Input) domain.Axes {
	x := fromOption(in.Options.X, in.Labels)
	y := fromOption(in.Options.Y, in.Labels)
	y.Format = NumberFormat(in.Lang)

	if in.Scales.X != nil {
		if categorical(in) {
			fillBounds(&x, domain.Range{Min: 0, Max: float64(len(in.Labels) - 1)})
		} else {
			fillBounds(&x, *in.Scales.X)
		}
	}
	if in.Scales.Y != nil {
		fillBounds(&y, *in.Scales.Y)
	}

	if len(in.Labels) > 0 {
		x.ValueLabels = slices.Clone(in.Labels)
	}

	if in.HostKind == domain.KindWordCloud {
		x.Minimum, x.Maximum = nil, nil
		y.Minimum, y.Maximum = nil, nil
		if x.Label == "" {
			x.Label = WordCloudXLabel
		}
		if y.Label == "" {
			y.Label = WordCloudYLabel
		}
	}

	if len(in.Labels) == 0 && len(in.Scrubbed) > 0 {
		x.ValueLabels = slices.Clone(in.Scrubbed)
	}

	if in.Target == domain.TargetScatter {
		x.ValueLabels = nil
	}

	return domain.Axes{X: x, Y: y}
}

func fromOption(opt domain.AxisOption, labels []string) domain.AxisSpec {
	var spec domain.AxisSpec
	spec.Minimum = resolveBound(opt.Min, labels)
	spec.Maximum = resolveBound(opt.Max, labels)
	if opt.Title.Text != "" {
		spec.Label = opt.Title.Text
	}
	if opt.Type == "logarithmic" {
		spec.Type = domain.AxisTypeLog10
	}
	return spec
}

// resolveBound translates a label bound into its category index. An
// unknown label yields nil.
func resolveBound(b *domain.Bound, labels []string) *float64 {
	if b == nil {
		return nil
	}
	if !b.IsLabel {
		return domain.Float(b.Num)
	}
	idx := slices.Index(labels, b.Label)
	if idx < 0 {
		return nil
	}
	return domain.Float(float64(idx))
}

func fillBounds(spec *domain.AxisSpec, r domain.Range) {
	if spec.Minimum == nil {
		spec.Minimum = domain.Float(r.Min)
	}
	if spec.Maximum == nil {
		spec.Maximum = domain.Float(r.Max)
	}
}

// categorical reports whether the x axis positions are category indices, in
// which case its bounds are the index range regardless of layout padding.
func categorical(in Input) bool {
	if len(in.Labels) == 0 || in.Target == domain.TargetScatter {
		return false
	}
	switch in.Options.X.Type {
	case "category", "":
		return true
	}
	return false
}

// Merge applies caller overrides. Every field an override sets wins over the
// derived value.
func Merge(axes domain.Axes, ov domain.AxisOverrides) domain.Axes {
	axes.X = mergeAxis(axes.X, ov.X)
	axes.Y = mergeAxis(axes.Y, ov.Y)
	return axes
}

func mergeAxis(spec domain.AxisSpec, ov *domain.AxisOverride) domain.AxisSpec {
	if ov == nil {
		return spec
	}
	if ov.Minimum != nil {
		spec.Minimum = domain.Float(*ov.Minimum)
	}
	if ov.Maximum != nil {
		spec.Maximum = domain.Float(*ov.Maximum)
	}
	if ov.Label != nil {
		spec.Label = *ov.Label
	}
	if ov.Type != nil {
		spec.Type = *ov.Type
	}
	if ov.ValueLabels != nil {
		spec.ValueLabels = slices.Clone(ov.ValueLabels)
	}
	if ov.Format != nil {
		spec.Format = ov.Format
	}
	return spec
}

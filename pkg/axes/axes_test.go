package axes_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/sonisync/pkg/axes"
	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_ExplicitOptions(t *testing.T) {
	labels := []string{"Jan", "Feb", "Mar", "Apr"}
	got := axes.Derive(axes.Input{
		Target: domain.TargetLine,
		Options: domain.AxisOptions{
			X: domain.AxisOption{
				Min:   domain.LabelBound("Feb"),
				Max:   domain.LabelBound("Dec"),
				Title: domain.AxisTitle{Text: "Month"},
			},
			Y: domain.AxisOption{
				Min:  domain.NumBound(1),
				Max:  domain.NumBound(1000),
				Type: "logarithmic",
			},
		},
		Labels: labels,
	})

	require.NotNil(t, got.X.Minimum)
	assert.Equal(t, 1.0, *got.X.Minimum, "label bound resolves to its index")
	assert.Nil(t, got.X.Maximum, "unknown label bound is left undefined")
	assert.Equal(t, "Month", got.X.Label)
	assert.Equal(t, labels, got.X.ValueLabels)

	assert.Equal(t, domain.AxisTypeLog10, got.Y.Type)
	assert.Equal(t, 1.0, *got.Y.Minimum)
	assert.Equal(t, 1000.0, *got.Y.Maximum)
	require.NotNil(t, got.Y.Format, "y axis always carries a default formatter")
}

func TestDerive_ScaleFallback(t *testing.T) {
	in := axes.Input{
		Target: domain.TargetBar,
		Labels: []string{"A", "B", "C"},
	}

	t.Run("Before Layout", func(t *testing.T) {
		got := axes.Derive(in)
		assert.Nil(t, got.Y.Minimum)
		assert.Nil(t, got.Y.Maximum)
		assert.Nil(t, got.X.Minimum)
	})

	t.Run("After Layout", func(t *testing.T) {
		in := in
		in.Scales = domain.ScaleBounds{
			X: &domain.Range{Min: 0, Max: 2},
			Y: &domain.Range{Min: 0, Max: 90},
		}
		got := axes.Derive(in)
		assert.Equal(t, 0.0, *got.Y.Minimum)
		assert.Equal(t, 90.0, *got.Y.Maximum)
	})

	t.Run("Explicit Wins", func(t *testing.T) {
		in := in
		in.Options.Y.Max = domain.NumBound(35)
		in.Scales = domain.ScaleBounds{Y: &domain.Range{Min: 0, Max: 90}}
		got := axes.Derive(in)
		assert.Equal(t, 0.0, *got.Y.Minimum)
		assert.Equal(t, 35.0, *got.Y.Maximum)
	})
}

func TestDerive_CategoricalBoundsIgnorePadding(t *testing.T) {
	labels := make([]string, 19)
	for i := range labels {
		labels[i] = fmt.Sprintf("L%d", i)
	}

	got := axes.Derive(axes.Input{
		Target: domain.TargetBar,
		Labels: labels,
		Scales: domain.ScaleBounds{
			X: &domain.Range{Min: -0.5, Max: 18.5},
			Y: &domain.Range{Min: 0, Max: 100},
		},
	})

	require.NotNil(t, got.X.Minimum)
	require.NotNil(t, got.X.Maximum)
	assert.Equal(t, 0.0, *got.X.Minimum)
	assert.Equal(t, 18.0, *got.X.Maximum)
}

func TestDerive_NumericXUsesLayoutBounds(t *testing.T) {
	got := axes.Derive(axes.Input{
		Target:  domain.TargetScatter,
		Options: domain.AxisOptions{X: domain.AxisOption{Type: "linear"}},
		Labels:  []string{"ignored"},
		Scales:  domain.ScaleBounds{X: &domain.Range{Min: -5, Max: 55}},
	})
	assert.Equal(t, -5.0, *got.X.Minimum)
	assert.Equal(t, 55.0, *got.X.Maximum)
	assert.Nil(t, got.X.ValueLabels, "scatter axes carry no positional labels")
}

func TestDerive_WordCloud(t *testing.T) {
	got := axes.Derive(axes.Input{
		HostKind: domain.KindWordCloud,
		Target:   domain.TargetBar,
		Options: domain.AxisOptions{
			Y: domain.AxisOption{Min: domain.NumBound(0), Max: domain.NumBound(10)},
		},
		Labels: []string{"go", "rust"},
		Scales: domain.ScaleBounds{
			X: &domain.Range{Min: 0, Max: 1},
			Y: &domain.Range{Min: 0, Max: 10},
		},
	})

	assert.Nil(t, got.X.Minimum)
	assert.Nil(t, got.X.Maximum)
	assert.Nil(t, got.Y.Minimum)
	assert.Nil(t, got.Y.Maximum)
	assert.Equal(t, axes.WordCloudXLabel, got.X.Label)
	assert.Equal(t, axes.WordCloudYLabel, got.Y.Label)
}

func TestDerive_ScrubbedLabels(t *testing.T) {
	scrubbed := []string{"Mon", "Tue"}

	got := axes.Derive(axes.Input{Target: domain.TargetLine, Scrubbed: scrubbed})
	assert.Equal(t, scrubbed, got.X.ValueLabels)

	got = axes.Derive(axes.Input{Target: domain.TargetLine, Labels: []string{"A", "B"}, Scrubbed: scrubbed})
	assert.Equal(t, []string{"A", "B"}, got.X.ValueLabels, "host labels take precedence")
}

func TestMerge_OverridesWin(t *testing.T) {
	derived := axes.Derive(axes.Input{
		Target: domain.TargetBar,
		Options: domain.AxisOptions{
			Y: domain.AxisOption{Title: domain.AxisTitle{Text: "Sales"}},
		},
		Scales: domain.ScaleBounds{Y: &domain.Range{Min: 0, Max: 90}},
	})

	label := "Revenue"
	custom := func(v float64) string { return fmt.Sprintf("$%.0f", v) }
	got := axes.Merge(derived, domain.AxisOverrides{
		Y: &domain.AxisOverride{
			Maximum: domain.Float(100),
			Label:   &label,
			Format:  custom,
		},
	})

	assert.Equal(t, 0.0, *got.Y.Minimum)
	assert.Equal(t, 100.0, *got.Y.Maximum)
	assert.Equal(t, "Revenue", got.Y.Label)
	assert.Equal(t, "$42", got.Y.Format(42))
	assert.Equal(t, derived.X, got.X, "axis without override is untouched")
}

func TestNumberFormat(t *testing.T) {
	assert.Equal(t, "1,234,567", axes.NumberFormat("")(1234567))
	assert.Equal(t, "1,234.5", axes.NumberFormat("en")(1234.5))
	assert.Equal(t, "0.333", axes.NumberFormat("en-US")(1.0/3))
	assert.Equal(t, "12", axes.NumberFormat("not a language")(12))
}

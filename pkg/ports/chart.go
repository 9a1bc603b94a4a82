package ports

import "github.com/aretw0/sonisync/pkg/domain"

// ChartModel is the read side of the host chart. The host owns the data;
// the reconciler only observes it.
type ChartModel interface {
	// ID identifies the chart instance. It keys the state registry.
	ID() string

	// Kind is the chart-level series kind (e.g. "bar", "wordCloud").
	Kind() string

	// Title is the chart title, multi-line titles already joined.
	Title() string

	Datasets() []domain.Dataset
	Labels() []string
	IsDatasetVisible(index int) bool

	// AxisOptions returns the axis configuration declared by the host.
	AxisOptions() domain.AxisOptions

	// ComputedScales returns the bounds computed by the host's layout engine.
	// Axes are nil until the first layout pass has run.
	ComputedScales() domain.ScaleBounds
}

// ChartView is the presentation side of the host chart.
type ChartView interface {
	// Canvas is the element the chart renders into.
	Canvas() any

	// NewControlElement creates the element hosting the sonification
	// controls when the caller did not supply one.
	NewControlElement() any

	// SetActiveElements highlights host elements and their tooltip.
	// A nil slice clears the highlight.
	SetActiveElements(refs []domain.ElementRef) error

	// OnFocus and OnBlur register listeners on the chart's focus target.
	OnFocus(fn func())
	OnBlur(fn func())
}

// Chart is the full host contract the reconciler needs.
type Chart interface {
	ChartModel
	ChartView
}

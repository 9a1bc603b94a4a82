package domain

// VerdictKind is the update strategy selected by the change classifier.
type VerdictKind string

const (
	VerdictUnchanged  VerdictKind = "unchanged"
	VerdictScaleOnly  VerdictKind = "scale_only"
	VerdictPureAppend VerdictKind = "pure_append"
	VerdictReplace    VerdictKind = "replace"
)

// AppendDescriptor describes a pure append to exactly one series. It is only
// valid within the reconciliation that produced it.
type AppendDescriptor struct {
	SeriesIndex int
	NewPoints   []Point

	// CategoryName is the engine category receiving the points. Empty for a
	// single ungrouped series.
	CategoryName string
	PriorLength  int

	// NewLabels holds category labels appended alongside the points.
	NewLabels []string
}

// Verdict is the classifier's result.
type Verdict struct {
	Kind   VerdictKind
	Append *AppendDescriptor
}

// Lifecycle is the per-chart state of the reconciliation driver.
type Lifecycle string

const (
	LifecycleUninitialized Lifecycle = "uninitialized"
	LifecycleActive        Lifecycle = "active"
	LifecycleDestroyed     Lifecycle = "destroyed"
)

package ports

import "github.com/aretw0/sonisync/pkg/domain"

// SonificationEngine is the mutation API of the external sonification engine.
type SonificationEngine interface {
	// SetData replaces all data and axes. When cursor is non-nil the engine
	// keeps its position at that point index.
	SetData(data domain.Payload, axes domain.Axes, cursor *int)

	// AppendData adds one point to the end of a category. An empty category
	// addresses an ungrouped series.
	AppendData(point domain.Point, category string) error

	SetCategoryVisibility(category string, visible bool) error

	// Current returns the engine's cursor.
	Current() domain.Cursor

	// CleanUp releases the engine. It is called exactly once.
	CleanUp()
}

// EngineInternals is the narrow capability contract the reconciler needs
// beyond the public mutation API.
type EngineInternals interface {
	// Categories returns the engine's category names in order, including a
	// synthetic aggregate category when the engine injected one.
	Categories() []string

	// PatchAxisBounds updates axis calibration in place, without a data
	// replace and without announcing a change to the listener.
	PatchAxisBounds(axis domain.AxisName, bounds domain.AxisBounds)

	// VisibleIndices returns the indices of the visible categories.
	VisibleIndices() []int
}

// Sonifier is a sonification engine instance as the reconciler owns it.
type Sonifier interface {
	SonificationEngine
	EngineInternals
}

// EngineConfig is the construction call for a sonification engine.
type EngineConfig struct {
	Target      any
	Control     any
	Kind        domain.TargetKind
	Data        domain.Payload
	Title       string
	Axes        domain.Axes
	AudioEngine any
	Lang        string

	// Stack enables the engine's stacked mode, which injects the aggregate
	// category at position 0.
	Stack bool

	// OnFocus is called whenever the engine's cursor moves or gains focus.
	OnFocus func()
}

// EngineFactory constructs a sonification engine.
type EngineFactory func(cfg EngineConfig) (Sonifier, error)

// AggregateCategory is the name of the synthetic category stacked engines
// inject at position 0.
const AggregateCategory = "All"

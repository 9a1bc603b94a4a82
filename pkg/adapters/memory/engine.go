package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/aretw0/sonisync/pkg/ports"
)

// Op is one recorded engine mutation.
type Op struct {
	Name     string `json:"op"`
	Category string `json:"category,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Engine is a recording sonification engine. It keeps the data, axes,
// visibility and cursor a real engine would, and logs every mutation.
// Safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	cfg     ports.EngineConfig
	data    domain.Payload
	axes    domain.Axes
	cats    []string
	hidden  map[string]bool
	cursor  int
	group   int
	ops     []Op
	cleaned bool

	// VisibilityErr and AppendErr, when set, are returned by the matching
	// mutation to simulate engine failures.
	VisibilityErr error
	AppendErr     error
}

// NewEngine builds an engine from a construction call.
func NewEngine(cfg ports.EngineConfig) *Engine {
	e := &Engine{cfg: cfg}
	e.load(cfg.Data, cfg.Axes)
	e.ops = append(e.ops, Op{Name: "construct", Detail: string(cfg.Kind)})
	return e
}

// load replaces data and axes. Category visibility does not survive it.
func (e *Engine) load(data domain.Payload, axes domain.Axes) {
	e.data = data
	e.axes = axes
	e.hidden = make(map[string]bool)
	switch {
	case !data.Grouped():
		e.cats = []string{""}
	case e.cfg.Stack:
		e.cats = append([]string{ports.AggregateCategory}, data.Groups...)
	default:
		e.cats = slices.Clone(data.Groups)
	}
	if e.group >= len(e.cats) {
		e.group = 0
	}
}

// SetData replaces data and axes, keeping the cursor at *cursor when given.
func (e *Engine) SetData(data domain.Payload, axes domain.Axes, cursor *int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.load(data, axes)
	if cursor == nil {
		e.cursor = 0
	} else {
		e.cursor = max(0, min(*cursor, e.lengthLocked()-1))
	}
	e.ops = append(e.ops, Op{Name: "setData", Detail: fmt.Sprintf("series=%d cursor=%d", len(data.Series), e.cursor)})
}

// AppendData adds a point to the end of a category.
func (e *Engine) AppendData(point domain.Point, category string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.AppendErr != nil {
		return e.AppendErr
	}
	i, err := e.seriesLocked(category)
	if err != nil {
		return err
	}
	e.data.Series[i] = append(e.data.Series[i], point)
	e.ops = append(e.ops, Op{Name: "appendData", Category: category, Detail: fmt.Sprintf("x=%g", point.X)})
	return nil
}

// SetCategoryVisibility toggles a category.
func (e *Engine) SetCategoryVisibility(category string, visible bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.VisibilityErr != nil {
		return e.VisibilityErr
	}
	if !slices.Contains(e.cats, category) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	if visible {
		delete(e.hidden, category)
	} else {
		e.hidden[category] = true
	}
	e.ops = append(e.ops, Op{Name: "setCategoryVisibility", Category: category, Detail: fmt.Sprintf("visible=%t", visible)})
	return nil
}

// Current returns the cursor.
func (e *Engine) Current() domain.Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := domain.Cursor{Group: e.cats[e.group], Index: e.cursor}
	if e.cats[e.group] == ports.AggregateCategory {
		c.Point = domain.Point{Kind: domain.PointXY, X: float64(e.cursor), Y: e.aggregateLocked(e.cursor)}
		return c
	}
	if s := e.data.Series[e.seriesIndex(e.group)]; e.cursor < len(s) {
		c.Point = s[e.cursor]
	}
	return c
}

// CleanUp releases the engine.
func (e *Engine) CleanUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleaned = true
	e.ops = append(e.ops, Op{Name: "cleanUp"})
}

// Categories returns the category names, aggregate first in stack mode.
func (e *Engine) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.cats)
}

// PatchAxisBounds recalibrates an axis in place.
func (e *Engine) PatchAxisBounds(axis domain.AxisName, bounds domain.AxisBounds) {
	e.mu.Lock()
	defer e.mu.Unlock()

	spec := &e.axes.X
	if axis == domain.AxisY {
		spec = &e.axes.Y
	}
	if bounds.Minimum != nil {
		spec.Minimum = domain.Float(*bounds.Minimum)
	}
	if bounds.Maximum != nil {
		spec.Maximum = domain.Float(*bounds.Maximum)
	}
	e.ops = append(e.ops, Op{Name: "patchAxis", Category: string(axis)})
}

// VisibleIndices returns the indices of the visible categories.
func (e *Engine) VisibleIndices() []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []int
	for i, c := range e.cats {
		if !e.hidden[c] {
			out = append(out, i)
		}
	}
	return out
}

// Move places the cursor and notifies the focus callback.
func (e *Engine) Move(category string, index int) error {
	e.mu.Lock()
	g := slices.Index(e.cats, category)
	if g < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	e.group, e.cursor = g, index
	e.mu.Unlock()

	e.Focus()
	return nil
}

// Focus notifies the focus callback, as when the control element gains focus.
func (e *Engine) Focus() {
	if e.cfg.OnFocus != nil {
		e.cfg.OnFocus()
	}
}

// Aggregate returns the value of the aggregate category at index: the sum
// over visible groups.
func (e *Engine) Aggregate(index int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aggregateLocked(index)
}

func (e *Engine) aggregateLocked(index int) float64 {
	var sum float64
	for g, name := range e.cats {
		if name == ports.AggregateCategory || e.hidden[name] {
			continue
		}
		s := e.data.Series[e.seriesIndex(g)]
		if index < len(s) {
			if v, ok := s[index].Value(); ok {
				sum += v
			}
		}
	}
	return sum
}

// Config returns the construction call.
func (e *Engine) Config() ports.EngineConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Data returns the current data.
func (e *Engine) Data() domain.Payload {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

// Axes returns the current axes.
func (e *Engine) Axes() domain.Axes {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.axes
}

// Hidden reports whether a category is hidden.
func (e *Engine) Hidden(category string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hidden[category]
}

// CleanedUp reports whether CleanUp was called.
func (e *Engine) CleanedUp() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cleaned
}

// Ops returns every mutation recorded so far.
func (e *Engine) Ops() []Op {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.ops)
}

// Drain returns and clears the recorded mutations.
func (e *Engine) Drain() []Op {
	e.mu.Lock()
	defer e.mu.Unlock()
	ops := e.ops
	e.ops = nil
	return ops
}

// seriesIndex maps a category index to its series, skipping the aggregate.
func (e *Engine) seriesIndex(category int) int {
	if len(e.cats) > 0 && e.cats[0] == ports.AggregateCategory {
		return category - 1
	}
	return category
}

func (e *Engine) seriesLocked(category string) (int, error) {
	g := slices.Index(e.cats, category)
	if g < 0 || e.cats[g] == ports.AggregateCategory {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	return e.seriesIndex(g), nil
}

func (e *Engine) lengthLocked() int {
	n := 0
	for _, s := range e.data.Series {
		n = max(n, len(s))
	}
	return n
}

// Factory constructs recording engines and remembers them.
type Factory struct {
	mu      sync.Mutex
	engines map[string]*Engine

	// Err, when set, fails every construction.
	Err error
}

// NewFactory creates an engine factory.
func NewFactory() *Factory {
	return &Factory{engines: make(map[string]*Engine)}
}

// New implements ports.EngineFactory. Engines are keyed by their target.
func (f *Factory) New(cfg ports.EngineConfig) (ports.Sonifier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	e := NewEngine(cfg)
	f.engines[fmt.Sprint(cfg.Target)] = e
	return e, nil
}

// Engine returns the last engine built for a chart canvas.
func (f *Factory) Engine(target any) (*Engine, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.engines[fmt.Sprint(target)]
	return e, ok
}

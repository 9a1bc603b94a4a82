package memory

import (
	"math"
	"slices"
	"strings"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/google/uuid"
)

// ChartDocument is the serialized definition of a host chart.
type ChartDocument struct {
	ID       string             `json:"id,omitempty"`
	Type     string             `json:"type"`
	Title    string             `json:"title,omitempty"`
	Labels   []string           `json:"labels,omitempty"`
	Datasets []domain.Dataset   `json:"datasets"`
	Hidden   []int              `json:"hidden,omitempty"`
	Scales   domain.AxisOptions `json:"scales,omitempty"`
}

// Chart is an in-memory host chart. It implements ports.Chart and
// computes layout scales the way a category/linear chart layout would.
// It is not safe for concurrent use.
type Chart struct {
	id       string
	kind     string
	title    string
	labels   []string
	datasets []domain.Dataset
	hidden   map[int]bool
	options  domain.AxisOptions
	scales   domain.ScaleBounds

	active  []domain.ElementRef
	focus   []func()
	blur    []func()
	control any
}

// NewChart builds a chart from its document. A missing ID is generated.
func NewChart(doc ChartDocument) *Chart {
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := &Chart{
		id:      id,
		kind:    doc.Type,
		title:   doc.Title,
		labels:  slices.Clone(doc.Labels),
		hidden:  make(map[int]bool),
		options: doc.Scales,
	}
	c.datasets = cloneDatasets(doc.Datasets)
	for _, i := range doc.Hidden {
		c.hidden[i] = true
	}
	return c
}

// Document returns the chart's current definition.
func (c *Chart) Document() ChartDocument {
	doc := ChartDocument{
		ID:       c.id,
		Type:     c.kind,
		Title:    c.title,
		Labels:   slices.Clone(c.labels),
		Datasets: cloneDatasets(c.datasets),
		Scales:   c.options,
	}
	for i := range c.datasets {
		if c.hidden[i] {
			doc.Hidden = append(doc.Hidden, i)
		}
	}
	return doc
}

func (c *Chart) ID() string { return c.id }
func (c *Chart) Kind() string { return c.kind }
func (c *Chart) Title() string { return c.title }
func (c *Chart) Datasets() []domain.Dataset { return cloneDatasets(c.datasets) }
func (c *Chart) Labels() []string { return slices.Clone(c.labels) }
func (c *Chart) IsDatasetVisible(index int) bool { return !c.hidden[index] }
func (c *Chart) AxisOptions() domain.AxisOptions { return c.options }
func (c *Chart) ComputedScales() domain.ScaleBounds { return c.scales }

// Canvas returns the chart's ID as its render target handle.
func (c *Chart) Canvas() any { return c.id }

// NewControlElement returns the generated control element handle.
func (c *Chart) NewControlElement() any {
	if c.control == nil {
		c.control = "cc-" + c.id
	}
	return c.control
}

// SetActiveElements records the highlighted elements.
func (c *Chart) SetActiveElements(refs []domain.ElementRef) error {
	c.active = slices.Clone(refs)
	return nil
}

// ActiveElements returns the currently highlighted elements.
func (c *Chart) ActiveElements() []domain.ElementRef {
	return slices.Clone(c.active)
}

func (c *Chart) OnFocus(fn func()) { c.focus = append(c.focus, fn) }
func (c *Chart) OnBlur(fn func()) { c.blur = append(c.blur, fn) }

// Focus fires the focus listeners.
func (c *Chart) Focus() {
	for _, fn := range c.focus {
		fn()
	}
}

// Blur fires the blur listeners.
func (c *Chart) Blur() {
	for _, fn := range c.blur {
		fn()
	}
}

// Mutators. None of them run layout or hooks; use Host for that.

// SetDatasets replaces all series.
func (c *Chart) SetDatasets(datasets []domain.Dataset) {
	c.datasets = cloneDatasets(datasets)
}

// SetData replaces the values of one series.
func (c *Chart) SetData(series int, values []domain.Value) {
	c.datasets[series].Data = slices.Clone(values)
}

// AppendData appends values to one series.
func (c *Chart) AppendData(series int, values ...domain.Value) {
	c.datasets[series].Data = append(c.datasets[series].Data, values...)
}

// SetLabels replaces the category labels.
func (c *Chart) SetLabels(labels []string) {
	c.labels = slices.Clone(labels)
}

// AppendLabels adds category labels.
func (c *Chart) AppendLabels(labels ...string) {
	c.labels = append(c.labels, labels...)
}

// SetKind changes the chart-level series kind.
func (c *Chart) SetKind(kind string) {
	c.kind = kind
}

// SetTitle changes the chart title.
func (c *Chart) SetTitle(title string) {
	c.title = title
}

// SetAxisOptions replaces the declared axis configuration.
func (c *Chart) SetAxisOptions(opts domain.AxisOptions) {
	c.options = opts
}

// SetDatasetVisibility toggles a series without firing any hook.
func (c *Chart) SetDatasetVisibility(series int, visible bool) {
	if visible {
		delete(c.hidden, series)
	} else {
		c.hidden[series] = true
	}
}

// ResetLayout clears the computed scales, as before a first layout pass.
func (c *Chart) ResetLayout() {
	c.scales = domain.ScaleBounds{}
}

// Layout computes the scales from the current data. Category axes get
// bar-style half-step padding; stacked y axes sum the visible series.
func (c *Chart) Layout() {
	c.scales = domain.ScaleBounds{X: c.layoutX(), Y: c.layoutY()}
}

func (c *Chart) layoutX() *domain.Range {
	kind := strings.ToLower(c.kind)
	if len(c.labels) > 0 && kind != domain.KindScatter && (c.options.X.Type == "" || c.options.X.Type == "category") {
		n := float64(len(c.labels))
		return &domain.Range{Min: -0.5, Max: n - 0.5}
	}

	r := emptyRange()
	for i, ds := range c.datasets {
		if c.hidden[i] {
			continue
		}
		for j, v := range ds.Data {
			x := float64(j)
			if v.Kind == domain.ValuePoint && !v.Labeled {
				x = v.X
			}
			r.extend(x)
		}
	}
	return r.result()
}

func (c *Chart) layoutY() *domain.Range {
	r := emptyRange()
	if c.options.Y.Stacked {
		var pos, neg []float64
		for i, ds := range c.datasets {
			if c.hidden[i] {
				continue
			}
			for j, v := range ds.Data {
				for len(pos) <= j {
					pos, neg = append(pos, 0), append(neg, 0)
				}
				lo, hi, ok := valueExtent(v)
				if !ok {
					continue
				}
				if hi > 0 {
					pos[j] += hi
				}
				if lo < 0 {
					neg[j] += lo
				}
			}
		}
		for j := range pos {
			r.extend(pos[j])
			r.extend(neg[j])
		}
		return r.result()
	}

	for i, ds := range c.datasets {
		if c.hidden[i] {
			continue
		}
		for _, v := range ds.Data {
			if lo, hi, ok := valueExtent(v); ok {
				r.extend(lo)
				r.extend(hi)
			}
		}
	}
	if out := r.result(); out != nil {
		if out.Min > 0 {
			out.Min = 0
		}
		return out
	}
	return nil
}

func valueExtent(v domain.Value) (lo, hi float64, ok bool) {
	switch v.Kind {
	case domain.ValueNumber:
		if math.IsNaN(v.Num) {
			return 0, 0, false
		}
		return v.Num, v.Num, true
	case domain.ValueRange:
		return min(v.Range[0], v.Range[1]), max(v.Range[0], v.Range[1]), true
	case domain.ValuePoint:
		return v.Y, v.Y, true
	case domain.ValueSamples:
		if len(v.Samples) == 0 {
			return 0, 0, false
		}
		return slices.Min(v.Samples), slices.Max(v.Samples), true
	}
	return 0, 0, false
}

type extent struct {
	min, max float64
	seen     bool
}

func emptyRange() *extent { return &extent{} }

func (e *extent) extend(v float64) {
	if !e.seen {
		e.min, e.max, e.seen = v, v, true
		return
	}
	e.min = min(e.min, v)
	e.max = max(e.max, v)
}

func (e *extent) result() *domain.Range {
	if !e.seen {
		return nil
	}
	return &domain.Range{Min: e.min, Max: e.max}
}

func cloneDatasets(in []domain.Dataset) []domain.Dataset {
	if in == nil {
		return nil
	}
	out := make([]domain.Dataset, len(in))
	for i, ds := range in {
		out[i] = ds
		out[i].Data = slices.Clone(ds.Data)
	}
	return out
}

package domain

import "encoding/json"

// AxisName identifies the x or y axis.
type AxisName string

const (
	AxisX AxisName = "x"
	AxisY AxisName = "y"
)

// AxisTypeLog10 marks a logarithmic axis in the engine's vocabulary.
const AxisTypeLog10 = "log10"

// Formatter renders an axis value for announcement.
type Formatter func(value float64) string

// AxisSpec is the engine's configuration of one axis. It is derived fresh on
// every reconciliation and never persisted.
type AxisSpec struct {
	Minimum     *float64  `json:"minimum,omitempty"`
	Maximum     *float64  `json:"maximum,omitempty"`
	Label       string    `json:"label,omitempty"`
	Type        string    `json:"type,omitempty"`
	ValueLabels []string  `json:"valueLabels,omitempty"`
	Format      Formatter `json:"-"`
}

// Axes pairs the x and y specs.
type Axes struct {
	X AxisSpec `json:"x"`
	Y AxisSpec `json:"y"`
}

// Bounds returns the axis minimum/maximum pair.
func (a AxisSpec) Bounds() AxisBounds {
	return AxisBounds{Minimum: a.Minimum, Maximum: a.Maximum}
}

// AxisBounds is a partial min/max patch. Nil fields are left untouched.
type AxisBounds struct {
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
}

// Empty reports whether neither bound is set.
func (b AxisBounds) Empty() bool { return b.Minimum == nil && b.Maximum == nil }

// AxisOverride is caller-supplied axis configuration. Every non-nil field
// replaces the derived value.
type AxisOverride struct {
	Minimum     *float64  `mapstructure:"minimum" json:"minimum,omitempty"`
	Maximum     *float64  `mapstructure:"maximum" json:"maximum,omitempty"`
	Label       *string   `mapstructure:"label" json:"label,omitempty"`
	Type        *string   `mapstructure:"type" json:"type,omitempty"`
	ValueLabels []string  `mapstructure:"valueLabels" json:"valueLabels,omitempty"`
	Format      Formatter `mapstructure:"-" json:"-"`
}

// AxisOverrides groups the per-axis overrides.
type AxisOverrides struct {
	X *AxisOverride `mapstructure:"x" json:"x,omitempty"`
	Y *AxisOverride `mapstructure:"y" json:"y,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String renders the axes for logs and operation traces.
func (a Axes) String() string {
	b, err := json.Marshal(a)
	if err != nil {
		return "{}"
	}
	return string(b)
}

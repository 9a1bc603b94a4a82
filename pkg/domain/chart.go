package domain

import (
	"encoding/json"
	"fmt"
)

// Dataset is one series of the host chart.
type Dataset struct {
	// Label is the series name. Empty means the host declared none.
	Label string `json:"label,omitempty"`

	// Kind overrides the chart-level kind for this series (mixed charts).
	Kind string `json:"type,omitempty"`

	Data []Value `json:"data"`
}

// Bound is an explicit axis minimum or maximum. Category axes may declare
// their bounds as a label instead of a number.
type Bound struct {
	Num     float64
	Label   string
	IsLabel bool
}

// NumBound returns a numeric bound.
func NumBound(v float64) *Bound { return &Bound{Num: v} }

// LabelBound returns a bound expressed as a category label.
func LabelBound(label string) *Bound { return &Bound{Label: label, IsLabel: true} }

// MarshalJSON implements json.Marshaler.
func (b Bound) MarshalJSON() ([]byte, error) {
	if b.IsLabel {
		return json.Marshal(b.Label)
	}
	return json.Marshal(b.Num)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bound) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		b.IsLabel = true
		return json.Unmarshal(data, &b.Label)
	}
	if err := json.Unmarshal(data, &b.Num); err != nil {
		return fmt.Errorf("invalid axis bound: %w", err)
	}
	return nil
}

// AxisTitle mirrors the host's axis title block.
type AxisTitle struct {
	Text    string `json:"text,omitempty"`
	Display bool   `json:"display,omitempty"`
}

// AxisOption is the host's declared configuration of one axis.
type AxisOption struct {
	Min     *Bound    `json:"min,omitempty"`
	Max     *Bound    `json:"max,omitempty"`
	Title   AxisTitle `json:"title,omitempty"`
	Type    string    `json:"type,omitempty"`
	Stacked bool      `json:"stacked,omitempty"`
}

// AxisOptions groups the declared x and y axis configuration.
type AxisOptions struct {
	X AxisOption `json:"x,omitempty"`
	Y AxisOption `json:"y,omitempty"`
}

// Range is a numeric min/max pair.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ScaleBounds carries the bounds computed by the host's layout engine.
// A nil axis means the layout pass has not produced it yet.
type ScaleBounds struct {
	X *Range `json:"x,omitempty"`
	Y *Range `json:"y,omitempty"`
}

// ElementRef addresses one rendered host element.
type ElementRef struct {
	DatasetIndex int `json:"datasetIndex"`
	Index        int `json:"index"`
}

// DatasetUpdateMode is the reason passed with a dataset visibility hook.
type DatasetUpdateMode string

const (
	ModeHide DatasetUpdateMode = "hide"
	ModeShow DatasetUpdateMode = "show"
)

// DatasetUpdateArgs is the payload of the after-dataset-update hook.
type DatasetUpdateArgs struct {
	Mode  DatasetUpdateMode
	Index int
}

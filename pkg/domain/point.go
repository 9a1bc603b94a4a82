package domain

import (
	"encoding/json"
	"math"
)

// PointKind is the sonification shape of a point.
type PointKind uint8

const (
	PointXY PointKind = iota
	PointRange
	PointBox
)

// PointRef locates the host element a point was produced from.
type PointRef struct {
	Group int `json:"group"`
	Index int `json:"index"`
}

// Point is one data point in the sonification engine's shape.
type Point struct {
	Kind PointKind
	X    float64

	// Y is set for PointXY. Missing marks a null host value.
	Y       float64
	Missing bool

	// Low and High are set for PointRange and PointBox.
	Low  float64
	High float64

	// Box summary.
	Q1       float64
	Median   float64
	Q3       float64
	Outliers []float64

	Custom PointRef
}

// Value returns the point's primary value (y, or high for ranges and boxes)
// and false when the point carries no usable number.
func (p Point) Value() (float64, bool) {
	switch p.Kind {
	case PointXY:
		if p.Missing || math.IsNaN(p.Y) {
			return 0, false
		}
		return p.Y, true
	default:
		return p.High, true
	}
}

// MarshalJSON renders the point as the engine consumes it.
func (p Point) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PointRange:
		return json.Marshal(struct {
			X      float64  `json:"x"`
			Low    float64  `json:"low"`
			High   float64  `json:"high"`
			Custom PointRef `json:"custom"`
		}{p.X, p.Low, p.High, p.Custom})
	case PointBox:
		return json.Marshal(struct {
			X        float64   `json:"x"`
			Low      float64   `json:"low"`
			Q1       float64   `json:"q1"`
			Median   float64   `json:"median"`
			Q3       float64   `json:"q3"`
			High     float64   `json:"high"`
			Outliers []float64 `json:"outlier,omitempty"`
			Custom   PointRef  `json:"custom"`
		}{p.X, p.Low, p.Q1, p.Median, p.Q3, p.High, p.Outliers, p.Custom})
	default:
		var y *float64
		if !p.Missing {
			y = &p.Y
		}
		return json.Marshal(struct {
			X      float64  `json:"x"`
			Y      *float64 `json:"y"`
			Custom PointRef `json:"custom"`
		}{p.X, y, p.Custom})
	}
}

// Payload is normalized sonification data. A single ungrouped series has
// nil Groups and exactly one entry in Series; grouped data has one group
// name per series, in series order.
type Payload struct {
	Groups []string  `json:"groups,omitempty"`
	Series [][]Point `json:"series"`
}

// Grouped reports whether the payload is keyed by group name.
func (p Payload) Grouped() bool { return p.Groups != nil }

// Empty reports whether every series has zero points.
func (p Payload) Empty() bool {
	for _, s := range p.Series {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

// Cursor is the sonification engine's current position.
type Cursor struct {
	Group string `json:"group"`
	Index int    `json:"index"`
	Point Point  `json:"point"`
}

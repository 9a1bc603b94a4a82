package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ValueKind classifies one entry of a host dataset.
type ValueKind uint8

const (
	ValueNull    ValueKind = iota // null / missing entry
	ValueNumber                   // plain number
	ValueRange                    // two-element [a, b] pair
	ValuePoint                    // {x, y} object, x numeric or a label
	ValueSamples                  // raw sample array (box plots)
)

// Value is one entry of a host dataset's data array.
// The host's data arrays are heterogeneous, so Value is a tagged union.
type Value struct {
	Kind ValueKind

	// Num is set for ValueNumber.
	Num float64

	// Range holds the pair exactly as the host supplied it (unsorted).
	Range [2]float64

	// X and Y are set for ValuePoint. When Labeled is true, the point's x
	// coordinate is actually a category label carried in Label.
	X       float64
	Y       float64
	Label   string
	Labeled bool

	// Samples is set for ValueSamples.
	Samples []float64
}

// Num returns a plain numeric value.
func Num(v float64) Value { return Value{Kind: ValueNumber, Num: v} }

// Nums is a convenience for building a numeric dataset.
func Nums(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Num(v)
	}
	return out
}

// Null returns a missing value.
func Null() Value { return Value{Kind: ValueNull} }

// RangeOf returns a range-pair value. The pair is kept in input order.
func RangeOf(a, b float64) Value { return Value{Kind: ValueRange, Range: [2]float64{a, b}} }

// XY returns a point with a numeric x coordinate.
func XY(x, y float64) Value { return Value{Kind: ValuePoint, X: x, Y: y} }

// LabeledXY returns a point whose x coordinate is a category label.
func LabeledXY(label string, y float64) Value {
	return Value{Kind: ValuePoint, Label: label, Labeled: true, Y: y}
}

// SamplesOf returns a raw sample array value.
func SamplesOf(vs ...float64) Value { return Value{Kind: ValueSamples, Samples: vs} }

type pointJSON struct {
	X json.RawMessage `json:"x"`
	Y *float64        `json:"y"`
}

// MarshalJSON renders the value in the host's native data shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Num)
	case ValueRange:
		return json.Marshal(v.Range[:])
	case ValueSamples:
		if v.Samples == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Samples)
	case ValuePoint:
		var x any = v.X
		if v.Labeled {
			x = v.Label
		}
		return json.Marshal(struct {
			X any     `json:"x"`
			Y float64 `json:"y"`
		}{x, v.Y})
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// UnmarshalJSON accepts a number, null, a numeric array (two elements are a
// range pair, any other length is a sample array) or an {x, y} object.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}

	switch data[0] {
	case '[':
		var nums []float64
		if err := json.Unmarshal(data, &nums); err != nil {
			return fmt.Errorf("invalid array value: %w", err)
		}
		if len(nums) == 2 {
			*v = RangeOf(nums[0], nums[1])
			return nil
		}
		*v = SamplesOf(nums...)
		return nil
	case '{':
		var p pointJSON
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("invalid point value: %w", err)
		}
		out := Value{Kind: ValuePoint}
		if p.Y != nil {
			out.Y = *p.Y
		}
		if len(p.X) > 0 && p.X[0] == '"' {
			if err := json.Unmarshal(p.X, &out.Label); err != nil {
				return fmt.Errorf("invalid point label: %w", err)
			}
			out.Labeled = true
		} else if len(p.X) > 0 && !bytes.Equal(p.X, []byte("null")) {
			if err := json.Unmarshal(p.X, &out.X); err != nil {
				return fmt.Errorf("invalid point x: %w", err)
			}
		}
		*v = out
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid numeric value: %w", err)
		}
		*v = Num(n)
		return nil
	}
}

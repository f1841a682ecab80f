package graph

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UnknownDim marks a dynamic or unresolvable dimension.
const UnknownDim int64 = -1

// Shape is a canonical tensor shape: either a flat sequence of dimensions
// (Nested == nil) or an ordered sequence of sub-shapes, e.g. for a layer with
// multiple named inputs. Unknown dimensions are recorded as UnknownDim.
type Shape struct {
	Dims   []int64
	Nested []*Shape
}

// NewShape builds a flat shape from the given dimensions.
func NewShape(dims ...int64) *Shape {
	return &Shape{Dims: dims}
}

// Nest wraps a sequence of shapes into a single nested shape.
func Nest(shapes ...*Shape) *Shape {
	return &Shape{Nested: shapes}
}

// NumElements returns the product of all dimensions, or 0 if the shape is
// nested or contains an unknown dimension. A zero-rank shape is a scalar with
// one element.
func (s *Shape) NumElements() int64 {
	if s == nil || s.Nested != nil {
		return 0
	}
	n := int64(1)
	for _, d := range s.Dims {
		if d < 0 {
			return 0
		}
		n *= d
	}
	return n
}

// MarshalJSON renders a flat shape as a JSON array of integers and a nested
// shape as an array of shapes, matching the persisted report format.
func (s *Shape) MarshalJSON() ([]byte, error) {
	if s.Nested != nil {
		return json.Marshal(s.Nested)
	}
	if s.Dims == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Dims)
}

func (s *Shape) String() string {
	if s == nil {
		return "?"
	}
	if s.Nested != nil {
		parts := make([]string, len(s.Nested))
		for i, sub := range s.Nested {
			parts[i] = sub.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	parts := make([]string, len(s.Dims))
	for i, d := range s.Dims {
		if d == UnknownDim {
			parts[i] = "?"
		} else {
			parts[i] = strconv.FormatInt(d, 10)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Resolve converts an arbitrary tensor-shape-like value into a canonical
// shape. nil dimensions become UnknownDim, and a sequence whose elements are
// themselves sequences resolves element-wise into a nested shape. Resolution
// never fails with an error: any value that does not look like a shape yields
// nil, meaning "shape unavailable". Shape metadata availability varies per
// format and per layer type, so callers must treat nil as a normal outcome.
func Resolve(v any) *Shape {
	switch t := v.(type) {
	case nil:
		return nil
	case *Shape:
		return t
	case Shape:
		return &t
	case []int64:
		return NewShape(append([]int64(nil), t...)...)
	case []int:
		dims := make([]int64, len(t))
		for i, d := range t {
			dims[i] = int64(d)
		}
		return &Shape{Dims: dims}
	case []int32:
		dims := make([]int64, len(t))
		for i, d := range t {
			dims[i] = int64(d)
		}
		return &Shape{Dims: dims}
	case []any:
		return resolveSlice(t)
	default:
		return nil
	}
}

func resolveSlice(items []any) *Shape {
	for _, it := range items {
		switch it.(type) {
		case []any, []int64, []int, []int32, *Shape, Shape:
			// At least one element is itself shape-like, so this is a
			// sequence of shapes rather than a sequence of dimensions.
			nested := make([]*Shape, len(items))
			for i, sub := range items {
				nested[i] = Resolve(sub)
			}
			return &Shape{Nested: nested}
		}
	}
	dims := make([]int64, len(items))
	for i, it := range items {
		dims[i] = resolveDim(it)
	}
	return &Shape{Dims: dims}
}

// resolveDim maps a single dimension value to an integer, with UnknownDim for
// anything that is absent or not a plain number.
func resolveDim(v any) int64 {
	switch n := v.(type) {
	case nil:
		return UnknownDim
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return UnknownDim
		}
		return i
	default:
		return UnknownDim
	}
}

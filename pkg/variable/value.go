package variable

import (
	"math"

	"lexcore-hq/lexcore/pkg/period"
)

// ValueType is the declared type of a variable's values.
type ValueType string

const (
	TypeBool   ValueType = "bool"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeString ValueType = "string"
	TypeEnum   ValueType = "enum"
	TypeDate   ValueType = "date"
)

// Array is one value per population member, aligned to the population's
// instance order. Elements are coerced to the owning variable's value type
// before an array enters the cache.
type Array []any

// FromFloats builds an array from float values.
func FromFloats(values []float64) Array {
	out := make(Array, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Floats extracts float64 elements, treating ints as floats. Non-numeric
// elements read as zero; cast before calling when that matters.
func Floats(a Array) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		if f, ok := toFloat(v); ok {
			out[i] = f
		}
	}
	return out
}

// Bools extracts bool elements; non-bool elements read as false.
func Bools(a Array) []bool {
	out := make([]bool, len(a))
	for i, v := range a {
		if b, ok := v.(bool); ok {
			out[i] = b
		}
	}
	return out
}

// Ints extracts integer elements; non-integer elements read as zero.
func Ints(a Array) []int64 {
	out := make([]int64, len(a))
	for i, v := range a {
		if n, ok := toInt(v); ok {
			out[i] = n
		}
	}
	return out
}

// Strings extracts string elements; non-string elements read as "".
func Strings(a Array) []string {
	out := make([]string, len(a))
	for i, v := range a {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out
}

// Broadcast returns an array of n copies of the value.
func Broadcast(value any, n int) Array {
	out := make(Array, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// castElement coerces a single element to the value type. A nil element
// coerces to the provided default.
func castElement(v any, vt ValueType, possible []string, def any) (any, bool) {
	if v == nil {
		return def, true
	}
	switch vt {
	case TypeBool:
		b, ok := v.(bool)
		return b, ok
	case TypeInt:
		n, ok := toInt(v)
		return n, ok
	case TypeFloat:
		f, ok := toFloat(v)
		return f, ok
	case TypeString:
		s, ok := v.(string)
		return s, ok
	case TypeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		if len(possible) == 0 {
			return s, true
		}
		for _, p := range possible {
			if p == s {
				return s, true
			}
		}
		return nil, false
	case TypeDate:
		switch d := v.(type) {
		case period.Instant:
			return d, true
		case string:
			at, err := period.ParseInstant(d)
			if err != nil {
				return nil, false
			}
			return at, true
		default:
			return nil, false
		}
	default:
		return nil, false
	}
}

package agent

import (
	"fmt"
	"strconv"
	"strings"
)

// Args holds an action's arguments. Values arrive as JSON-decoded types from
// the classifier (strings, float64 numbers) or as parsed values from
// slot-filling, so the getters coerce.
type Args map[string]any

// Clone returns a shallow copy.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Has reports whether key is present with a non-empty value.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// String returns the value at key rendered as a string.
func (a Args) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Uint returns the value at key as an unsigned integer, 0 if absent or
// unparseable.
func (a Args) Uint(key string) uint {
	v, ok := a[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0
		}
		return uint(t)
	case int:
		if t < 0 {
			return 0
		}
		return uint(t)
	case uint:
		return t
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		return uint(n)
	default:
		return 0
	}
}

// Int returns the value at key as an int, 0 if absent or unparseable.
func (a Args) Int(key string) int {
	v, ok := a[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float returns the value at key as a float64, 0 if absent or unparseable.
func (a Args) Float(key string) float64 {
	v, ok := a[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// UintSlice returns the value at key as a []uint. Accepts []uint directly
// and JSON-decoded []any of numbers.
func (a Args) UintSlice(key string) []uint {
	v, ok := a[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []uint:
		return t
	case []any:
		out := make([]uint, 0, len(t))
		for _, e := range t {
			switch n := e.(type) {
			case float64:
				out = append(out, uint(n))
			case int:
				out = append(out, uint(n))
			}
		}
		return out
	default:
		return nil
	}
}

package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldSet offers typed helpers on top of the flattened field map.
// It also works on maps that crossed a JSON boundary, where integer
// fields come back as float64.
type FieldSet struct {
	data map[string]any
}

// FieldSet returns a FieldSet over the reading's flattened fields.
func (r *Reading) FieldSet() FieldSet {
	return NewFieldSet(r.Fields())
}

// NewFieldSet wraps an existing field map, e.g. one received over a
// websocket subscription.
func NewFieldSet(data map[string]any) FieldSet {
	return FieldSet{data: data}
}

// Raw returns the stored value without conversions.
func (fs FieldSet) Raw(key string) (any, bool) {
	if fs.data == nil {
		return nil, false
	}
	v, ok := fs.data[key]
	return v, ok
}

// Has reports whether the field was present in the telegram.
func (fs FieldSet) Has(key string) bool {
	_, ok := fs.Raw(key)
	return ok
}

// Float returns the field coerced to float64.
func (fs FieldSet) Float(key string) (float64, error) {
	v, ok := fs.Raw(key)
	if !ok {
		return 0, fmt.Errorf("field %q missing", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case uint32:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("field %q is not numeric: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

// Uint returns the field coerced to uint32, truncating float input.
func (fs FieldSet) Uint(key string) (uint32, error) {
	v, ok := fs.Raw(key)
	if !ok {
		return 0, fmt.Errorf("field %q missing", key)
	}
	switch n := v.(type) {
	case uint32:
		return n, nil
	case float64:
		return uint32(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("field %q is not integer: %w", key, err)
		}
		return uint32(i), nil
	case string:
		i, err := strconv.ParseUint(n, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("field %q is not integer: %w", key, err)
		}
		return uint32(i), nil
	default:
		return 0, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

// String returns the field as a string.
func (fs FieldSet) String(key string) (string, error) {
	v, ok := fs.Raw(key)
	if !ok {
		return "", fmt.Errorf("field %q missing", key)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", v), nil
}

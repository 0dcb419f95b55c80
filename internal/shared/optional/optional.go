// Package optional models request values that can be absent, explicitly
// null, or set. Partial updates depend on telling the three apart.
package optional

import "encoding/json"

type Value[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Value: v}
}

func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// FromPtr maps nil to an explicit null.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// Get reports the value and whether it is set and non-null.
func (v Value[T]) Get() (T, bool) {
	return v.Value, v.Set && !v.Null
}

// Ptr returns nil for absent and null values.
func (v Value[T]) Ptr() *T {
	if !v.Set || v.Null {
		return nil
	}
	out := v.Value
	return &out
}

// Or returns the value when set and non-null, def otherwise.
func (v Value[T]) Or(def T) T {
	if val, ok := v.Get(); ok {
		return val
	}
	return def
}

// UnmarshalJSON marks the value as set; a JSON null marks it as null.
// Absent keys never reach this method so Set stays false.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true
	if string(data) == "null" {
		v.Null = true
		var zero T
		v.Value = zero
		return nil
	}
	v.Null = false
	return json.Unmarshal(data, &v.Value)
}

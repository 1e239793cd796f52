package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Optional is a field of a partial update: either present with a value or absent.
// A JSON null decodes as absent.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}

		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("error decoding optional value: %w", err)
	}
	*o = Some(v)

	return nil
}

// Ptr returns a pointer to the value, or nil if it is absent.
func (o Optional[T]) Ptr() *T {
	if !o.Set {
		return nil
	}
	v := o.Value

	return &v
}

// Get returns the value if present, otherwise fallback.
func (o Optional[T]) Get(fallback T) T {
	if !o.Set {
		return fallback
	}

	return o.Value
}

// Package types provides type definitions for structured data used throughout the slide deck generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OptionalText is a text value that is either present or absent.
// The zero value is absent. Sentinel strings such as "null" are never
// interpreted here; that coercion belongs to the field normalizer.
type OptionalText struct {
	value   string
	present bool
}

// Some returns a present OptionalText holding s.
func Some(s string) OptionalText {
	return OptionalText{value: s, present: true}
}

// None returns an absent OptionalText.
func None() OptionalText {
	return OptionalText{}
}

// Get returns the held text and whether it is present.
func (o OptionalText) Get() (string, bool) {
	return o.value, o.present
}

// Present reports whether a value is held.
func (o OptionalText) Present() bool {
	return o.present
}

// OrEmpty returns the held text, or "" when absent.
func (o OptionalText) OrEmpty() string {
	return o.value
}

// IsZero reports whether the value is absent. Used by the omitzero JSON option.
func (o OptionalText) IsZero() bool {
	return !o.present
}

// String implements fmt.Stringer for debugging output.
func (o OptionalText) String() string {
	if !o.present {
		return "<absent>"
	}
	return o.value
}

// MarshalJSON encodes a present value as a JSON string and an absent one as null.
func (o OptionalText) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes a JSON string into a present value and null into absent.
func (o *OptionalText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("optional text must be a string or null: %w", err)
	}
	*o = Some(s)
	return nil
}

// Package jsonvalue provides an opaque JSON value type for task arguments and
// outputs, per the core's "treat as opaque" design note: the executor never
// interprets these values, only stores and forwards them.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Value is a tagged-union JSON value: null, bool, number, string, array, or
// object. It round-trips exactly, including explicit JSON null, which a bare
// `any` cannot distinguish from "absent".
type Value struct {
	raw     json.RawMessage
	present bool
}

// Null is the JSON null value.
var Null = Value{raw: json.RawMessage("null"), present: true}

// FromAny wraps an arbitrary Go value (already JSON-marshalable) as a Value.
func FromAny(v any) (Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Value{}, err
	}
	return Value{raw: b, present: true}, nil
}

// IsPresent reports whether the value was ever set (as opposed to the zero
// Value, which represents an absent optional field).
func (v Value) IsPresent() bool { return v.present }

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool {
	return v.present && bytes.Equal(bytes.TrimSpace(v.raw), []byte("null"))
}

// Raw returns the canonical JSON bytes for this value, or nil if absent.
func (v Value) Raw() json.RawMessage {
	if !v.present {
		return nil
	}
	return v.raw
}

// Decode unmarshals the value into dst.
func (v Value) Decode(dst any) error {
	if !v.present {
		return errors.New("jsonvalue: value is absent")
	}
	return json.Unmarshal(v.raw, dst)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	cp := make(json.RawMessage, len(b))
	copy(cp, b)
	v.raw = cp
	v.present = true
	return nil
}

// Equal reports whether two values have byte-identical canonical encodings.
// This is intentionally stricter than semantic JSON equality (key order,
// whitespace) since the core never needs to compare structurally.
func (v Value) Equal(other Value) bool {
	if v.present != other.present {
		return false
	}
	return bytes.Equal(v.raw, other.raw)
}

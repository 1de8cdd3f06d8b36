// Package attrdecode pulls typed values out of a resolved widget
// attribute map and validates the result with go-playground/validator,
// turning a failing validation into a lattice.AttributeTypeError the
// same way the rest of the runtime wraps errors.
package attrdecode

import (
	"github.com/go-playground/validator/v10"
	"github.com/latticetui/lattice"
)

// Decoder wraps a single shared *validator.Validate instance, grounded
// on the teacher's pattern of constructing one validator at startup and
// reusing it rather than allocating per-call.
type Decoder struct {
	v *validator.Validate
}

// New constructs a Decoder with validator's default tag set.
func New() *Decoder {
	return &Decoder{v: validator.New()}
}

// Validate runs struct-tag validation on s (expected to be a pointer to
// a widget's parsed attribute struct), wrapping any failure as an
// AttributeTypeError for kind. The error's Name is always "attributes";
// it does not name the field that failed.
func (d *Decoder) Validate(kind string, s any) error {
	if err := d.v.Struct(s); err != nil {
		return &lattice.AttributeTypeError{Kind: kind, Name: "attributes", Err: err}
	}
	return nil
}

// Int extracts an integer attribute, returning ok=false when absent or
// not a numeric scalar.
func Int(attrs map[string]lattice.ValueReference, key string) (int, bool) {
	v, ok := attrs[key]
	if !ok || v.Kind != lattice.RefScalar {
		return 0, false
	}
	switch v.Scalar.Kind {
	case lattice.OwnedInt:
		return int(v.Scalar.Int), true
	case lattice.OwnedUint:
		return int(v.Scalar.Uint), true
	case lattice.OwnedFloat:
		return int(v.Scalar.Float), true
	default:
		return 0, false
	}
}

// Float extracts a float-valued attribute.
func Float(attrs map[string]lattice.ValueReference, key string) (float64, bool) {
	v, ok := attrs[key]
	if !ok || v.Kind != lattice.RefScalar {
		return 0, false
	}
	return v.Scalar.AsFloat(), true
}

// Bool extracts a boolean attribute.
func Bool(attrs map[string]lattice.ValueReference, key string) (bool, bool) {
	v, ok := attrs[key]
	if !ok || v.Kind != lattice.RefScalar || v.Scalar.Kind != lattice.OwnedBool {
		return false, false
	}
	return v.Scalar.Bool, true
}

// String extracts a string-valued attribute.
func String(attrs map[string]lattice.ValueReference, key string) (string, bool) {
	v, ok := attrs[key]
	if !ok || v.Kind != lattice.RefStringSlice {
		return "", false
	}
	return v.StringVal, true
}

// StringOr returns the string attribute at key, or def if absent.
func StringOr(attrs map[string]lattice.ValueReference, key, def string) string {
	if s, ok := String(attrs, key); ok {
		return s
	}
	return def
}

// IntOr returns the integer attribute at key, or def if absent.
func IntOr(attrs map[string]lattice.ValueReference, key string, def int) int {
	if n, ok := Int(attrs, key); ok {
		return n
	}
	return def
}

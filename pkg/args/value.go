// SPDX-License-Identifier: MPL-2.0

package args

import "strconv"

const (
	kindBool valueKind = iota
	kindString
)

type (
	valueKind uint8

	// Value is the value bound to a named option. A bare --name yields a
	// boolean true; --name=value yields the string "value".
	Value struct {
		kind valueKind
		b    bool
		s    string
	}
)

// Bool returns a boolean option value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// String returns a string option value.
func String(s string) Value { return Value{kind: kindString, s: s} }

// IsBool reports whether the value came from a bare flag (or a boolean default).
func (v Value) IsBool() bool { return v.kind == kindBool }

// Bool interprets the value as a boolean. String values are parsed with
// strconv.ParseBool; anything unparseable is false.
func (v Value) Bool() bool {
	if v.kind == kindBool {
		return v.b
	}
	b, err := strconv.ParseBool(v.s)
	if err != nil {
		return false
	}
	return b
}

// String returns the textual form of the value. Boolean values render as
// "true" or "false".
func (v Value) String() string {
	if v.kind == kindBool {
		return strconv.FormatBool(v.b)
	}
	return v.s
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.b == o.b && v.s == o.s
}

// Package grade defines the ordinal grade scale used by the grade-book.
//
// The numeric value of each grade takes part in averaging, so the mapping
// bad=2, medium=3, good=4, great=5 is fixed.
package grade

import (
	"errors"
	"fmt"
)

// Value is a single grade on the four-step scale.
type Value int

const (
	Bad    Value = 2
	Medium Value = 3
	Good   Value = 4
	Great  Value = 5
)

// ErrInvalidGrade is returned when a name or number is not on the scale.
var ErrInvalidGrade = errors.New("invalid grade")

// All lists every grade in enumeration order.
// Statistics iterate this slice, so its order decides frequency ties.
var All = []Value{Bad, Medium, Good, Great}

var names = map[Value]string{
	Bad:    "bad",
	Medium: "medium",
	Good:   "good",
	Great:  "great",
}

// String returns the persisted name of the grade ("bad", "medium", ...).
func (v Value) String() string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("grade(%d)", int(v))
}

// Int returns the numeric score used for averaging.
func (v Value) Int() int {
	return int(v)
}

// Valid reports whether v is one of the four defined grades.
func (v Value) Valid() bool {
	_, ok := names[v]
	return ok
}

// Parse converts a grade name into a Value.
// Only the exact lower-case names are accepted.
func Parse(s string) (Value, error) {
	for _, v := range All {
		if names[v] == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of bad, medium, good, great)", ErrInvalidGrade, s)
}

// FromInt converts a numeric score into a Value.
func FromInt(n int) (Value, error) {
	v := Value(n)
	if !v.Valid() {
		return 0, fmt.Errorf("%w: %d is outside 2..5", ErrInvalidGrade, n)
	}
	return v, nil
}

// MarshalText implements encoding.TextMarshaler so grades render by name
// in JSON and YAML output.
func (v Value) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

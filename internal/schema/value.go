package schema

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

// Value is a single field value of a row: NULL, text or a number.
// A number keeps its exact decimal spelling next to its float64 so that
// integers beyond 2^53 survive the round trip into SQL text.
// The zero Value is NULL.
type Value struct {
	kind Kind
	text string
	num  float64
	lit  string // exact decimal form of a number
}

// Row maps column names to values. A row returned by an arbitrary query may
// hold only a subset of the table's columns.
type Row map[string]Value

// Null returns the NULL value
func Null() Value { return Value{} }

// Text returns a text value
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric value
func Number(f float64) Value { return Value{kind: KindNumber, num: f, lit: FormatNumber(f)} }

// Int returns an exact integer value
func Int(n int64) Value {
	return Value{kind: KindNumber, num: float64(n), lit: strconv.FormatInt(n, 10)}
}

// Uint returns an exact unsigned integer value
func Uint(n uint64) Value {
	return Value{kind: KindNumber, num: float64(n), lit: strconv.FormatUint(n, 10)}
}

// ParseInteger parses a whole number of any size, keeping every digit
func ParseInteger(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Value{}, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return Value{kind: KindNumber, num: f, lit: n.String()}, true
}

// ParseNumber parses decimal input. Whole numbers stay exact; anything else
// must parse as a finite float.
func ParseNumber(s string) (Value, bool) {
	if v, ok := ParseInteger(s); ok {
		return v, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	return Number(f), true
}

// Bool returns 1 or 0; booleans are shown and written as numbers.
func Bool(b bool) Value {
	if b {
		return Number(1)
	}
	return Number(0)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsText returns the text of a text value
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsNumber returns the number of a numeric value. Integers beyond 2^53 are
// rounded; use String for the exact form.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// IsFinite reports whether the value is a number other than NaN or an infinity
func (v Value) IsFinite() bool {
	return v.kind == KindNumber && !math.IsNaN(v.num) && !math.IsInf(v.num, 0)
}

// IsZero reports whether the value is empty: NULL, the empty string, zero or NaN.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindText:
		return v.text == ""
	case KindNumber:
		return v.num == 0 || math.IsNaN(v.num)
	default:
		return true
	}
}

// Equal reports whether both values hold the same variant and content.
// Numbers compare by their exact decimal form.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.text == o.text && v.lit == o.lit
}

// String formats the value for display
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		if v.lit == "" {
			return FormatNumber(v.num)
		}
		return v.lit
	default:
		return "NULL"
	}
}

// FormatNumber renders a number without exponent or trailing zeros
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Clone returns a copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the row carries a value for name
func (r Row) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Merge returns a new row holding r overlaid with o
func (r Row) Merge(o Row) Row {
	out := r.Clone()
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Equal reports whether both rows have the same keys and values
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for k, v := range r {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

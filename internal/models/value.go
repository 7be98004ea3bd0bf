package models

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which member of a Value is set
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindInt
	KindFloat
)

// Value is a single decoded field of a source record.
// The zero Value is absent.
type Value struct {
	Kind  Kind
	Text  string
	Int   int64
	Float float64
}

// Text wraps a raw string field
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Int wraps an integer field
func Int(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// Float wraps a floating point field
func Float(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// Absent is a field the tool reported as missing ("-" or a short row)
func Absent() Value {
	return Value{}
}

// IsAbsent reports whether the value carries no data
func (v Value) IsAbsent() bool {
	return v.Kind == KindAbsent
}

// Less orders two values of the same field. Text compares byte-wise,
// numbers compare numerically. Absent values and text/number pairs are
// never less than anything.
func (v Value) Less(o Value) bool {
	switch {
	case v.Kind == KindText && o.Kind == KindText:
		return v.Text < o.Text
	case v.Kind == KindInt && o.Kind == KindInt:
		return v.Int < o.Int
	}
	a, aok := v.numeric()
	b, bok := o.numeric()
	return aok && bok && a < b
}

func (v Value) numeric() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// Number returns the value as a float64 for plotting. Text is accepted
// when it holds a number (chronyc prints offsets as text).
func (v Value) Number() (float64, bool) {
	if v.Kind == KindText {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		return f, err == nil
	}
	return v.numeric()
}

// String renders the value the way graphing hosts have always received it:
// "None" for absent, plain integers, and floats with at least one decimal.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return formatFloat(v.Float)
	}
	return "None"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

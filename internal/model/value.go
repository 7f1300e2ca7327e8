package model

import (
	"strconv"
	"time"
)

// Kind identifies the dynamic type of a cell Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindTime
)

// Value is one typed table cell: string, integer, float, UTC timestamp, or null.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Time  time.Time
}

// Null returns the null cell value.
func Null() Value { return Value{Kind: KindNull} }

// String wraps a string cell.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int wraps an integer cell.
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// Float wraps a float cell.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Time wraps a timestamp cell. The stored value is always UTC.
func Time(t time.Time) Value { return Value{Kind: KindTime, Time: t.UTC()} }

// IsNull reports whether the value carries no data.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsText reports whether the value is string-typed. Full-text search
// runs over text cells only.
func (v Value) IsText() bool { return v.Kind == KindString }

// Text renders the value for matching and counting. Null renders empty,
// timestamps render RFC3339.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindTime:
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// Native returns the cell as a plain JSON-serializable Go value.
func (v Value) Native() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindTime:
		return v.Time.Format(time.RFC3339)
	default:
		return nil
	}
}

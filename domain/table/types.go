package table

import (
	"math"
	"strconv"
	"time"
)

// ColumnType is the uniform inferred type of a column
type ColumnType string

const (
	ColumnText    ColumnType = "text"
	ColumnInteger ColumnType = "integer"
	ColumnFloat   ColumnType = "float"
	ColumnDate    ColumnType = "date"
)

// IsNumeric reports whether values of the column are numbers
func (t ColumnType) IsNumeric() bool {
	return t == ColumnInteger || t == ColumnFloat
}

// ValueKind tags the payload held by a Value
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindText
	KindNumber
	KindDate
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "missing"
	}
}

// DateLayout is the canonical rendering of date values
const DateLayout = "2006-01-02"

// Value is a single typed cell. The zero Value is missing.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Date   time.Time
}

// Missing returns an absent value
func Missing() Value { return Value{} }

// Text creates a text value. The empty string is a value, not a missing cell.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number creates a numeric value; NaN is stored as missing
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{Kind: KindNumber, Number: f}
}

// Date creates a date value truncated to the calendar day in UTC
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// IsMissing reports whether the cell is absent
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// String renders the value the way it appears in delimited output
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		return v.Date.Format(DateLayout)
	default:
		return ""
	}
}

// Equal compares kind and payload; two missing values are equal
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == o.Text
	case KindNumber:
		return v.Number == o.Number
	case KindDate:
		return v.Date.Equal(o.Date)
	default:
		return true
	}
}

// key is an unambiguous encoding used for row hashing
func (v Value) key() string {
	switch v.Kind {
	case KindText:
		return "t" + strconv.Quote(v.Text)
	case KindNumber:
		n := v.Number
		if n == 0 {
			n = 0 // -0 and 0 are the same row value
		}
		return "n" + strconv.FormatFloat(n, 'g', -1, 64)
	case KindDate:
		return "d" + v.Date.Format(DateLayout)
	default:
		return "-"
	}
}

// Column describes one named, typed column
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Row holds values aligned with the table's columns
type Row []Value

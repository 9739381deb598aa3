package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DatetimeLayout is the fixed ISO-8601 pattern used for parsing and rendering datetime cells.
const DatetimeLayout = "2006-01-02T15:04:05"

// CellKind tags the value held by a Cell
type CellKind uint8

const (
	KindMissing CellKind = iota
	KindInteger
	KindFloat
	KindDatetime
	KindString
)

func (k CellKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDatetime:
		return "datetime"
	case KindString:
		return "string"
	}
	return "invalid"
}

// Cell is one value of a column. The zero Cell is Missing.
type Cell struct {
	kind CellKind
	i    int64
	f    float64
	t    time.Time
	s    string
}

// Missing returns a missing cell
func Missing() Cell {
	return Cell{}
}

// NewInteger creates an integer cell
func NewInteger(v int64) Cell {
	return Cell{kind: KindInteger, i: v}
}

// NewFloat creates a float cell. NaN is stored as Missing; infinities are kept.
func NewFloat(v float64) Cell {
	if math.IsNaN(v) {
		return Missing()
	}
	return Cell{kind: KindFloat, f: v}
}

// NewDatetime creates a datetime cell
func NewDatetime(t time.Time) Cell {
	return Cell{kind: KindDatetime, t: t}
}

// NewString creates a string cell. The empty string is stored as Missing.
func NewString(s string) Cell {
	if s == "" {
		return Missing()
	}
	return Cell{kind: KindString, s: s}
}

// Kind returns the tag of the cell
func (c Cell) Kind() CellKind {
	return c.kind
}

// IsMissing reports whether the cell holds no value
func (c Cell) IsMissing() bool {
	return c.kind == KindMissing
}

// IsNumeric reports whether the cell holds an integer or float
func (c Cell) IsNumeric() bool {
	return c.kind == KindInteger || c.kind == KindFloat
}

// Float returns the numeric value of an integer or float cell
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case KindInteger:
		return float64(c.i), true
	case KindFloat:
		return c.f, true
	}
	return 0, false
}

// Int returns the integer value of an integer cell
func (c Cell) Int() (int64, bool) {
	if c.kind == KindInteger {
		return c.i, true
	}
	return 0, false
}

// Time returns the value of a datetime cell
func (c Cell) Time() (time.Time, bool) {
	if c.kind == KindDatetime {
		return c.t, true
	}
	return time.Time{}, false
}

// Str returns the value of a string cell
func (c Cell) Str() (string, bool) {
	if c.kind == KindString {
		return c.s, true
	}
	return "", false
}

// String renders the cell as text. Missing renders as the empty string.
func (c Cell) String() string {
	switch c.kind {
	case KindInteger:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return formatFloat(c.f)
	case KindDatetime:
		return c.t.Format(DatetimeLayout)
	case KindString:
		return c.s
	}
	return ""
}

// Equal reports whether two cells hold the same kind and value
func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindInteger:
		return c.i == o.i
	case KindFloat:
		return c.f == o.f
	case KindDatetime:
		return c.t.Equal(o.t)
	case KindString:
		return c.s == o.s
	}
	return true
}

// Compare orders cells in value order: numbers numerically, datetimes chronologically,
// everything else by text. Missing sorts first.
func Compare(a, b Cell) int {
	if a.IsMissing() || b.IsMissing() {
		switch {
		case a.IsMissing() && b.IsMissing():
			return 0
		case a.IsMissing():
			return -1
		default:
			return 1
		}
	}
	if af, ok := a.Float(); ok {
		if bf, ok := b.Float(); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.Time(); ok {
		if bt, ok := b.Time(); ok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(a.String(), b.String())
}

// formatFloat keeps a fractional part on integral values so 2.0 stays distinguishable from 2
func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "Inf"
	}
	if math.IsInf(f, -1) {
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes missing as null, numbers as JSON numbers and datetimes in DatetimeLayout.
// Floats always carry a fraction or exponent so they decode back as floats.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindMissing:
		return []byte("null"), nil
	case KindInteger:
		return []byte(strconv.FormatInt(c.i, 10)), nil
	case KindFloat:
		if math.IsInf(c.f, 0) {
			return json.Marshal(formatFloat(c.f))
		}
		s := strconv.FormatFloat(c.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return []byte(s), nil
	case KindDatetime:
		return json.Marshal(c.t.Format(DatetimeLayout))
	case KindString:
		return json.Marshal(c.s)
	}
	return nil, fmt.Errorf("cannot marshal cell of kind %d", c.kind)
}

// UnmarshalJSON decodes null as missing, integral number literals as integers,
// other numbers as floats and everything else as text.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Missing()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = NewString(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*c = NewString(strconv.FormatBool(b))
		return nil
	}

	literal := string(data)
	if !strings.ContainsAny(literal, ".eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			*c = NewInteger(i)
			return nil
		}
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return fmt.Errorf("invalid cell literal %s: %w", literal, err)
	}
	*c = NewFloat(f)
	return nil
}

package dataset

import (
	"fmt"
	"math"
	"strings"
)

// ColumnType is the declared type of a column
type ColumnType uint8

const (
	TypeUnknown ColumnType = iota
	TypeInteger
	TypeFloat
	TypeDatetime
	TypeString
	TypeCategorical
)

// AllColumnTypes lists the declarable column types in presentation order
var AllColumnTypes = []ColumnType{TypeInteger, TypeFloat, TypeDatetime, TypeString, TypeCategorical}

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeDatetime:
		return "Datetime"
	case TypeString:
		return "String"
	case TypeCategorical:
		return "Categorical"
	}
	return "Unknown"
}

// IsNumeric reports whether the type holds integers or floats
func (t ColumnType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// IsCategorical reports whether the type holds labels (strings or categories)
func (t ColumnType) IsCategorical() bool {
	return t == TypeString || t == TypeCategorical
}

// ParseColumnType accepts type names case-insensitively as well as the
// dtype aliases used by the upload layer (int64, float64, datetime64, object, category).
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integer", "int", "int64":
		return TypeInteger, nil
	case "float", "float64", "double":
		return TypeFloat, nil
	case "datetime", "datetime64", "date":
		return TypeDatetime, nil
	case "string", "object", "text":
		return TypeString, nil
	case "categorical", "category":
		return TypeCategorical, nil
	case "", "unknown":
		return TypeUnknown, nil
	}
	return TypeUnknown, fmt.Errorf("unknown column type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ColumnType) UnmarshalText(text []byte) error {
	parsed, err := ParseColumnType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TypeMap maps column names to their declared types
type TypeMap map[string]ColumnType

// Clone returns an independent copy of the map
func (m TypeMap) Clone() TypeMap {
	out := make(TypeMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Column is a named, typed, row-aligned sequence of cells
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Values []Cell     `json:"values"`
}

// NewColumn creates a column, copying the supplied cells
func NewColumn(name string, typ ColumnType, values []Cell) Column {
	cells := make([]Cell, len(values))
	copy(cells, values)
	return Column{Name: name, Type: typ, Values: cells}
}

// Len returns the number of rows
func (c Column) Len() int {
	return len(c.Values)
}

// Clone returns a deep copy of the column
func (c Column) Clone() Column {
	return NewColumn(c.Name, c.Type, c.Values)
}

// WithValues returns a column with the same name and type holding the given cells
func (c Column) WithValues(values []Cell) Column {
	return Column{Name: c.Name, Type: c.Type, Values: values}
}

// MissingCount returns the number of missing cells
func (c Column) MissingCount() int {
	count := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			count++
		}
	}
	return count
}

// IsNumeric reports whether the column is declared numeric or, when untyped,
// holds only numeric or missing cells.
func (c Column) IsNumeric() bool {
	if c.Type.IsNumeric() {
		return true
	}
	if c.Type != TypeUnknown {
		return false
	}
	seen := false
	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		if !v.IsNumeric() {
			return false
		}
		seen = true
	}
	return seen
}

// Floats returns the finite-or-infinite numeric values of the column together
// with their row positions. Missing and non-numeric cells are skipped.
func (c Column) Floats() ([]float64, []int) {
	values := make([]float64, 0, len(c.Values))
	rows := make([]int, 0, len(c.Values))
	for i, v := range c.Values {
		if f, ok := v.Float(); ok && !math.IsNaN(f) {
			values = append(values, f)
			rows = append(rows, i)
		}
	}
	return values, rows
}

// WithNumbers returns a copy of the column with the given rows replaced by numbers.
// An Integer column stays Integer when every replacement is integral; otherwise the
// whole column is promoted to Float.
func (c Column) WithNumbers(replacements map[int]float64) Column {
	out := c.Clone()
	if len(replacements) == 0 {
		return out
	}

	integral := c.Type == TypeInteger
	for _, f := range replacements {
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			integral = false
			break
		}
	}

	if integral {
		for row, f := range replacements {
			out.Values[row] = NewInteger(int64(f))
		}
		return out
	}

	for i, v := range out.Values {
		if f, ok := v.Float(); ok {
			out.Values[i] = NewFloat(f)
		}
	}
	for row, f := range replacements {
		out.Values[row] = NewFloat(f)
	}
	if c.Type == TypeInteger {
		out.Type = TypeFloat
	}
	return out
}

package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"goeda/domain/core"
	"goeda/domain/dataset"
	"goeda/internal"
)

// Policy selects how float conversion treats unparseable values
type Policy int

const (
	// PolicyStrict fails the whole conversion on the first unparseable value
	PolicyStrict Policy = iota
	// PolicyCoercive turns unparseable values into Missing
	PolicyCoercive
)

func (p Policy) String() string {
	if p == PolicyCoercive {
		return "coercive"
	}
	return "strict"
}

// ParsePolicy maps "strict"/"coercive" to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "coercive", "coerce":
		return PolicyCoercive, nil
	}
	return PolicyStrict, core.NewUnknownMethodError("conversion policy", s)
}

// Converter coerces columns between column types.
//
// Only Float conversion honours the policy. Integer and Datetime conversion always
// fail on a non-conforming value, String and Categorical conversion never fail.
type Converter struct {
	logger *internal.Logger
}

// NewConverter creates a converter; a nil logger falls back to the default logger
func NewConverter(logger *internal.Logger) *Converter {
	return &Converter{logger: logger.OrDefault().With("converter")}
}

// ConvertStrict converts with PolicyStrict
func (c *Converter) ConvertStrict(col dataset.Column, target dataset.ColumnType) (dataset.Column, error) {
	return c.Convert(col, target, PolicyStrict)
}

// ConvertCoercive converts with PolicyCoercive
func (c *Converter) ConvertCoercive(col dataset.Column, target dataset.ColumnType) (dataset.Column, error) {
	return c.Convert(col, target, PolicyCoercive)
}

// Convert returns a new column of the target type. The input column is not modified.
func (c *Converter) Convert(col dataset.Column, target dataset.ColumnType, policy Policy) (dataset.Column, error) {
	var (
		values []dataset.Cell
		err    error
	)

	switch target {
	case dataset.TypeString:
		values = mapCells(col.Values, toString)
	case dataset.TypeCategorical:
		values = mapCells(col.Values, func(v dataset.Cell) dataset.Cell { return v })
	case dataset.TypeInteger:
		values, err = c.convertEach(col, target, toInteger, PolicyStrict)
	case dataset.TypeFloat:
		values, err = c.convertEach(col, target, toFloat, policy)
	case dataset.TypeDatetime:
		values, err = c.convertEach(col, target, toDatetime, PolicyStrict)
	default:
		return dataset.Column{}, &core.UnsupportedTypeError{Column: col.Name, Type: target.String(), Operation: "conversion"}
	}
	if err != nil {
		return dataset.Column{}, err
	}

	c.logger.Debug("converted column %q from %s to %s (%s)", col.Name, col.Type, target, policy)
	return dataset.Column{Name: col.Name, Type: target, Values: values}, nil
}

func mapCells(values []dataset.Cell, fn func(dataset.Cell) dataset.Cell) []dataset.Cell {
	out := make([]dataset.Cell, len(values))
	for i, v := range values {
		out[i] = fn(v)
	}
	return out
}

func (c *Converter) convertEach(col dataset.Column, target dataset.ColumnType, fn func(dataset.Cell) (dataset.Cell, error), policy Policy) ([]dataset.Cell, error) {
	out := make([]dataset.Cell, len(col.Values))
	dropped := 0
	for i, v := range col.Values {
		if v.IsMissing() {
			continue
		}
		converted, err := fn(v)
		if err != nil {
			if policy == PolicyCoercive {
				dropped++
				continue
			}
			return nil, &core.ConversionError{
				Column: col.Name,
				Row:    i,
				Value:  v.String(),
				Target: target.String(),
				Cause:  err,
			}
		}
		out[i] = converted
	}
	if dropped > 0 {
		c.logger.Warn("coercive conversion of column %q to %s replaced %d values with missing", col.Name, target, dropped)
	}
	return out, nil
}

func toString(v dataset.Cell) dataset.Cell {
	if v.IsMissing() {
		return v
	}
	return dataset.NewString(v.String())
}

// parseNumber parses text with either '.' or ',' as decimal separator
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}

func toInteger(v dataset.Cell) (dataset.Cell, error) {
	var f float64
	switch v.Kind() {
	case dataset.KindInteger:
		return v, nil
	case dataset.KindFloat:
		f, _ = v.Float()
	case dataset.KindString:
		s, _ := v.Str()
		parsed, err := parseNumber(s)
		if err != nil {
			return dataset.Cell{}, fmt.Errorf("not numeric")
		}
		f = parsed
	default:
		return dataset.Cell{}, fmt.Errorf("%s value is not numeric", v.Kind())
	}

	if math.IsInf(f, 0) || math.IsNaN(f) {
		return dataset.Cell{}, fmt.Errorf("non-finite value")
	}
	truncated := math.Trunc(f)
	if truncated > math.MaxInt64 || truncated < math.MinInt64 {
		return dataset.Cell{}, fmt.Errorf("out of integer range")
	}
	return dataset.NewInteger(int64(truncated)), nil
}

func toFloat(v dataset.Cell) (dataset.Cell, error) {
	switch v.Kind() {
	case dataset.KindInteger, dataset.KindFloat:
		f, _ := v.Float()
		return dataset.NewFloat(f), nil
	case dataset.KindString:
		s, _ := v.Str()
		f, err := parseNumber(s)
		if err != nil {
			return dataset.Cell{}, fmt.Errorf("not numeric")
		}
		return dataset.NewFloat(f), nil
	}
	return dataset.Cell{}, fmt.Errorf("%s value is not numeric", v.Kind())
}

func toDatetime(v dataset.Cell) (dataset.Cell, error) {
	switch v.Kind() {
	case dataset.KindDatetime:
		return v, nil
	case dataset.KindString:
		s, _ := v.Str()
		t, err := time.Parse(dataset.DatetimeLayout, strings.TrimSpace(s))
		if err != nil {
			return dataset.Cell{}, fmt.Errorf("expected layout %s", dataset.DatetimeLayout)
		}
		return dataset.NewDatetime(t), nil
	}
	return dataset.Cell{}, fmt.Errorf("%s value is not a datetime", v.Kind())
}

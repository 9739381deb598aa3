package coercer

import (
	"regexp"

	"goeda/domain/dataset"
	"goeda/internal"
)

var (
	// numberPattern accepts an unsigned decimal with '.' or ',' as separator
	numberPattern = regexp.MustCompile(`^\d+([.,]\d+)?$`)
	// integerPattern accepts an unsigned integer, optionally with a zero fraction
	integerPattern = regexp.MustCompile(`^\d+([.,]0)?$`)
	// fractionPattern requires an explicit fractional part
	fractionPattern = regexp.MustCompile(`^\d+[.,]\d+$`)
)

// classificationRule pairs a column predicate with the type it implies.
// Rules are evaluated in order and the first match wins.
type classificationRule struct {
	name      string
	predicate func(col dataset.Column) bool
	target    dataset.ColumnType
}

// classificationRules is the ordered rule table used by the classifier.
//
// Missing cells satisfy every per-value pattern, so an entirely missing column
// is classified as Integer. That case is kept as its own named rule so the
// behaviour stays visible instead of falling out of the integer rule.
var classificationRules = []classificationRule{
	{name: "all-missing", predicate: allMissing, target: dataset.TypeInteger},
	{name: "integer-pattern", predicate: everyValue(integerPattern), target: dataset.TypeInteger},
	{name: "float-pattern", predicate: isFloatColumn, target: dataset.TypeFloat},
	{name: "datetime", predicate: isDatetimeColumn, target: dataset.TypeDatetime},
	{name: "declared-categorical", predicate: declared(dataset.TypeCategorical), target: dataset.TypeCategorical},
	{name: "typed-integer", predicate: everyKind(dataset.KindInteger), target: dataset.TypeInteger},
	{name: "typed-numeric", predicate: typedNumeric, target: dataset.TypeFloat},
}

// Classifier decides the ColumnType of raw columns
type Classifier struct {
	logger *internal.Logger
}

// NewClassifier creates a classifier; a nil logger falls back to the default logger
func NewClassifier(logger *internal.Logger) *Classifier {
	return &Classifier{logger: logger.OrDefault().With("classifier")}
}

// Classify returns the type implied by the first matching rule, or String when none matches
func (c *Classifier) Classify(col dataset.Column) dataset.ColumnType {
	typ, rule := classify(col)
	c.logger.Trace("column %q classified as %s by rule %s", col.Name, typ, rule)
	return typ
}

// ClassifyTypes classifies every column of the dataset
func (c *Classifier) ClassifyTypes(ds dataset.Dataset) dataset.TypeMap {
	types := make(dataset.TypeMap, len(ds.Columns))
	for _, col := range ds.Columns {
		types[col.Name] = c.Classify(col)
	}
	c.logger.Debug("classified %d columns", len(types))
	return types
}

func classify(col dataset.Column) (dataset.ColumnType, string) {
	for _, rule := range classificationRules {
		if rule.predicate(col) {
			return rule.target, rule.name
		}
	}
	return dataset.TypeString, "default"
}

func allMissing(col dataset.Column) bool {
	for _, v := range col.Values {
		if !v.IsMissing() {
			return false
		}
	}
	return true
}

// everyValue reports whether every non-missing cell renders to text matching re
func everyValue(re *regexp.Regexp) func(dataset.Column) bool {
	return func(col dataset.Column) bool {
		for _, v := range col.Values {
			if v.IsMissing() {
				continue
			}
			if !re.MatchString(v.String()) {
				return false
			}
		}
		return true
	}
}

// anyValue reports whether at least one non-missing cell matches re
func anyValue(re *regexp.Regexp, col dataset.Column) bool {
	for _, v := range col.Values {
		if !v.IsMissing() && re.MatchString(v.String()) {
			return true
		}
	}
	return false
}

func isFloatColumn(col dataset.Column) bool {
	return everyValue(numberPattern)(col) && anyValue(fractionPattern, col)
}

// everyKind matches columns whose non-missing cells all carry the given kind
func everyKind(kind dataset.CellKind) func(dataset.Column) bool {
	return func(col dataset.Column) bool {
		for _, v := range col.Values {
			if !v.IsMissing() && v.Kind() != kind {
				return false
			}
		}
		return true
	}
}

// typedNumeric keeps already-typed numbers (negatives, infinities) numeric
// even though their text does not match the unsigned patterns.
func typedNumeric(col dataset.Column) bool {
	for _, v := range col.Values {
		if !v.IsMissing() && !v.IsNumeric() {
			return false
		}
	}
	return true
}

func isDatetimeColumn(col dataset.Column) bool {
	return col.Type == dataset.TypeDatetime || everyKind(dataset.KindDatetime)(col)
}

func declared(typ dataset.ColumnType) func(dataset.Column) bool {
	return func(col dataset.Column) bool {
		return col.Type == typ
	}
}

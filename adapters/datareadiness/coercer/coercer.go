package coercer

import (
	"goeda/domain/dataset"
	"goeda/internal"
)

// TypeCoercer runs classification followed by conversion, the step applied
// to every freshly loaded dataset.
type TypeCoercer struct {
	classifier *Classifier
	converter  *Converter
	logger     *internal.Logger
}

// NewTypeCoercer creates a coercer sharing one logger between its parts
func NewTypeCoercer(logger *internal.Logger) *TypeCoercer {
	logger = logger.OrDefault()
	return &TypeCoercer{
		classifier: NewClassifier(logger),
		converter:  NewConverter(logger),
		logger:     logger.With("coercer"),
	}
}

// Classifier exposes the underlying classifier
func (c *TypeCoercer) Classifier() *Classifier {
	return c.classifier
}

// Converter exposes the underlying converter
func (c *TypeCoercer) Converter() *Converter {
	return c.converter
}

// Infer classifies every column and converts it to the inferred type.
// A column whose conversion fails is stringified and declared String.
func (c *TypeCoercer) Infer(ds dataset.Dataset) (dataset.Dataset, dataset.TypeMap) {
	types := c.classifier.ClassifyTypes(ds)
	out := ds.Clone()

	for i, col := range out.Columns {
		target := types[col.Name]
		converted, err := c.converter.Convert(col, target, PolicyCoercive)
		if err != nil {
			c.logger.Warn("column %q kept as String: %v", col.Name, err)
			types[col.Name] = dataset.TypeString
			converted, _ = c.converter.Convert(col, dataset.TypeString, PolicyStrict)
		}
		out.Columns[i] = converted
	}

	return out, types
}

// Package senses implements the individual bivariate measures: correlation,
// simple linear regression, variance tables and two-group clustering.
// Every function expects already paired-clean input (see CleanPairs).
package senses

import (
	"fmt"
	"math"

	"goeda/domain/core"

	"gonum.org/v1/gonum/stat"
)

// MinPairs is the smallest number of complete pairs any measure accepts
const MinPairs = 3

// CleanPairs drops every position where x or y is NaN or infinite.
// rows maps each kept pair back to its original position.
func CleanPairs(x, y []float64) (cx, cy []float64, rows []int, err error) {
	if len(x) != len(y) {
		return nil, nil, nil, fmt.Errorf("%w: x has %d values, y has %d", core.ErrLengthMismatch, len(x), len(y))
	}
	cx = make([]float64, 0, len(x))
	cy = make([]float64, 0, len(y))
	rows = make([]int, 0, len(x))
	for i := range x {
		if !Valid(x[i]) || !Valid(y[i]) {
			continue
		}
		cx = append(cx, x[i])
		cy = append(cy, y[i])
		rows = append(rows, i)
	}
	return cx, cy, rows, nil
}

// Valid reports whether v is neither NaN nor infinite
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// requirePairs checks the sample size and that neither side is constant
func requirePairs(operation string, x, y []float64) error {
	if len(x) < MinPairs {
		return core.NewInsufficientDataError(operation, len(x), MinPairs)
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return fmt.Errorf("%w: %s requires non-constant values", core.ErrInsufficientData, operation)
	}
	return nil
}

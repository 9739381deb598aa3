package senses

import (
	"errors"
	"fmt"
	"sort"

	"goeda/domain/core"
	domainstats "goeda/domain/stats"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Term names used in variance tables
const (
	FactorTerm    = "C(group)"
	CovariateTerm = "covariate"
	ResidualTerm  = "Residual"
)

// Levels returns the distinct labels in sorted order
func Levels(labels []string) []string {
	seen := make(map[string]bool)
	levels := make([]string, 0)
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			levels = append(levels, l)
		}
	}
	sort.Strings(levels)
	return levels
}

// OneWayANOVA partitions the variance of y into between-group and within-group sums of squares
func OneWayANOVA(labels []string, y []float64) (domainstats.VarianceTable, error) {
	levels, err := checkGroups("ANOVA", labels, y, 0)
	if err != nil {
		return domainstats.VarianceTable{}, err
	}

	sums := make(map[string]float64, len(levels))
	counts := make(map[string]float64, len(levels))
	grand := 0.0
	for i, l := range labels {
		sums[l] += y[i]
		counts[l]++
		grand += y[i]
	}
	grand /= float64(len(y))

	ssBetween, ssWithin := 0.0, 0.0
	for _, l := range levels {
		d := sums[l]/counts[l] - grand
		ssBetween += counts[l] * d * d
	}
	for i, l := range labels {
		d := y[i] - sums[l]/counts[l]
		ssWithin += d * d
	}

	dfFactor := float64(len(levels) - 1)
	dfResidual := float64(len(y) - len(levels))
	return domainstats.VarianceTable{
		Model: "value ~ " + FactorTerm,
		Rows: []domainstats.TableRow{
			termRow(FactorTerm, dfFactor, ssBetween, dfResidual, ssWithin),
			residualRow(dfResidual, ssWithin),
		},
	}, nil
}

// ANCOVA fits value ~ group (+ covariate) by least squares and reports Type-II
// sums of squares: each term's contribution given every other term.
// A nil covariate reduces the model to the one-way layout.
func ANCOVA(labels []string, y, covariate []float64) (domainstats.VarianceTable, error) {
	extra := 0
	if covariate != nil {
		if len(covariate) != len(y) {
			return domainstats.VarianceTable{}, fmt.Errorf("%w: covariate has %d values, response has %d",
				core.ErrLengthMismatch, len(covariate), len(y))
		}
		extra = 1
	}
	levels, err := checkGroups("ANCOVA", labels, y, extra)
	if err != nil {
		return domainstats.VarianceTable{}, err
	}

	dummies := dummyColumns(labels, levels)
	yv := mat.NewVecDense(len(y), append([]float64(nil), y...))

	fullCols := append(append([][]float64{}, dummies...), covariate)
	if covariate == nil {
		fullCols = dummies
	}
	rssFull, err := residualSS(design(len(y), fullCols...), yv)
	if err != nil {
		return domainstats.VarianceTable{}, err
	}

	var withoutFactor [][]float64
	if covariate != nil {
		withoutFactor = [][]float64{covariate}
	}
	rssNoFactor, err := residualSS(design(len(y), withoutFactor...), yv)
	if err != nil {
		return domainstats.VarianceTable{}, err
	}

	dfResidual := float64(len(y) - len(levels) - extra)
	model := "value ~ " + FactorTerm
	rows := []domainstats.TableRow{
		termRow(FactorTerm, float64(len(levels)-1), nonNegative(rssNoFactor-rssFull), dfResidual, rssFull),
	}

	if covariate != nil {
		rssNoCovariate, err := residualSS(design(len(y), dummies...), yv)
		if err != nil {
			return domainstats.VarianceTable{}, err
		}
		model += " + " + CovariateTerm
		rows = append(rows, termRow(CovariateTerm, 1, nonNegative(rssNoCovariate-rssFull), dfResidual, rssFull))
	}

	rows = append(rows, residualRow(dfResidual, rssFull))
	return domainstats.VarianceTable{Model: model, Rows: rows}, nil
}

// checkGroups requires two or more groups and at least one residual degree of freedom
func checkGroups(operation string, labels []string, y []float64, extraParams int) ([]string, error) {
	if len(labels) != len(y) {
		return nil, fmt.Errorf("%w: %d labels for %d values", core.ErrLengthMismatch, len(labels), len(y))
	}
	levels := Levels(labels)
	if len(levels) < 2 {
		return nil, fmt.Errorf("%w: %s needs at least 2 groups, got %d", core.ErrInsufficientData, operation, len(levels))
	}
	if len(y)-len(levels)-extraParams < 1 {
		return nil, core.NewInsufficientDataError(operation, len(y), len(levels)+extraParams+1)
	}
	return levels, nil
}

// dummyColumns treatment-codes the labels against the first level
func dummyColumns(labels, levels []string) [][]float64 {
	cols := make([][]float64, len(levels)-1)
	for j, level := range levels[1:] {
		col := make([]float64, len(labels))
		for i, l := range labels {
			if l == level {
				col[i] = 1
			}
		}
		cols[j] = col
	}
	return cols
}

// design builds an n×(1+len(cols)) matrix with a leading intercept column
func design(n int, cols ...[]float64) *mat.Dense {
	x := mat.NewDense(n, len(cols)+1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j, c := range cols {
			x.Set(i, j+1, c[i])
		}
	}
	return x
}

func residualSS(x *mat.Dense, y *mat.VecDense) (float64, error) {
	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return 0, fmt.Errorf("%w: design matrix is singular (%v)", core.ErrInsufficientData, err)
		}
		return 0, err
	}
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	fitted.SubVec(y, &fitted)
	return mat.Dot(&fitted, &fitted), nil
}

func termRow(term string, df, ss, dfResidual, ssResidual float64) domainstats.TableRow {
	row := domainstats.TableRow{Term: term, DF: df, SumSq: ss, MeanSq: ss / df}
	msResidual := ssResidual / dfResidual
	if msResidual > 0 {
		f := row.MeanSq / msResidual
		p := distuv.F{D1: df, D2: dfResidual}.Survival(f)
		row.F, row.PValue = &f, &p
	}
	return row
}

func residualRow(df, ss float64) domainstats.TableRow {
	return domainstats.TableRow{Term: ResidualTerm, DF: df, SumSq: ss, MeanSq: ss / df}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

package outliers

import (
	"fmt"
	"strings"

	"goeda/domain/core"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// FixMethod names an outlier correction
type FixMethod string

const (
	FixRemove FixMethod = "remove"
	FixCap    FixMethod = "cap"
	FixMean   FixMethod = "mean"
	FixMedian FixMethod = "median"
)

// ParseFixMethod validates a correction method name
func ParseFixMethod(s string) (FixMethod, error) {
	switch m := FixMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case FixRemove, FixCap, FixMean, FixMedian:
		return m, nil
	}
	return "", core.NewUnknownMethodError("outlier correction", s)
}

// Corrector rewrites the cells flagged by an OutlierReport
type Corrector struct {
	opts   Options
	logger *internal.Logger
}

// NewCorrector creates a corrector
func NewCorrector(opts Options, logger *internal.Logger) *Corrector {
	return &Corrector{opts: opts.normalized(), logger: logger.OrDefault().With("outliers")}
}

// Fix returns a copy of the column with the flagged cells corrected.
// Rows are never deleted: remove turns flagged cells into Missing.
func (c *Corrector) Fix(col dataset.Column, report domainstats.OutlierReport, method FixMethod) (dataset.Column, error) {
	if !col.IsNumeric() {
		return dataset.Column{}, &core.UnsupportedTypeError{
			Column: col.Name, Type: col.Type.String(), Operation: "outlier correction",
		}
	}
	for _, row := range report.Indices {
		if row < 0 || row >= col.Len() {
			return dataset.Column{}, fmt.Errorf("%w: outlier row %d outside column %q of length %d",
				core.ErrLengthMismatch, row, col.Name, col.Len())
		}
	}
	if report.Count() == 0 {
		return col.Clone(), nil
	}

	switch method {
	case FixRemove:
		out := col.Clone()
		for _, row := range report.Indices {
			out.Values[row] = dataset.Missing()
		}
		return out, nil
	case FixCap:
		return c.capped(col, report), nil
	case FixMean, FixMedian:
		return c.replaced(col, report, method)
	}
	return dataset.Column{}, core.NewUnknownMethodError("outlier correction", string(method))
}

func (c *Corrector) capped(col dataset.Column, report domainstats.OutlierReport) dataset.Column {
	lower, upper := capBounds(col, report)
	replacements := make(map[int]float64, report.Count())
	for _, row := range report.Indices {
		v, ok := col.Values[row].Float()
		if !ok {
			continue
		}
		switch {
		case v < lower:
			replacements[row] = lower
		case v > upper:
			replacements[row] = upper
		}
	}
	c.logger.Debug("capping %d outliers in %q to [%g, %g]", len(replacements), col.Name, lower, upper)
	return col.WithNumbers(replacements)
}

// capBounds maps the report bounds into the column's units.
// zscore bounds are z-scores, so they become mean ± z·σ of the column.
func capBounds(col dataset.Column, report domainstats.OutlierReport) (float64, float64) {
	if DetectMethod(strings.ToLower(report.Method)) != DetectZScore {
		return report.LowerBound, report.UpperBound
	}
	values, _ := finiteValues(col)
	if len(values) == 0 {
		return report.LowerBound, report.UpperBound
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return mean + report.LowerBound*std, mean + report.UpperBound*std
}

func (c *Corrector) replaced(col dataset.Column, report domainstats.OutlierReport, method FixMethod) (dataset.Column, error) {
	flagged := report.Flagged()
	values, rows := finiteValues(col)

	basis := values
	if !c.opts.ReplacementIncludesOutliers {
		basis = make([]float64, 0, len(values))
		for i, v := range values {
			if !flagged[rows[i]] {
				basis = append(basis, v)
			}
		}
	}
	if len(basis) == 0 {
		return dataset.Column{}, core.NewInsufficientDataError(fmt.Sprintf("outlier %s replacement", method), 0, 1)
	}

	var (
		fill float64
		err  error
	)
	if method == FixMean {
		fill, err = stats.Mean(basis)
	} else {
		fill, err = stats.Median(basis)
	}
	if err != nil {
		return dataset.Column{}, err
	}

	replacements := make(map[int]float64, len(flagged))
	for row := range flagged {
		replacements[row] = fill
	}
	c.logger.Debug("replacing %d outliers in %q with %s %g", len(replacements), col.Name, method, fill)
	return col.WithNumbers(replacements), nil
}

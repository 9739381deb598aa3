package engine

import (
	"goeda/adapters/stats/senses"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
)

// analyzeNumeric runs the numeric × numeric battery on the paired-clean values
func (e *StatsEngine) analyzeNumeric(x, y dataset.Column) (domainstats.Bivariate, error) {
	xs, ys := numericValues(x), numericValues(y)
	cx, cy, _, err := senses.CleanPairs(xs, ys)
	if err != nil {
		return domainstats.Bivariate{}, err
	}
	dropped := len(xs) - len(cx)
	if dropped > 0 {
		e.logger.Debug("%s x %s: dropped %d incomplete pairs", x.Name, y.Name, dropped)
	}

	corr, err := senses.Correlate(cx, cy)
	if err != nil {
		return domainstats.Bivariate{}, err
	}
	corr.DroppedPairs = dropped

	fit, err := senses.FitLinear(cx, cy, e.opts.ConfidenceLevel)
	if err != nil {
		return domainstats.Bivariate{}, err
	}

	return domainstats.Bivariate{
		X:           x.Name,
		Y:           y.Name,
		Kind:        domainstats.AnalysisNumeric,
		Correlation: &corr,
		Regression:  &fit,
	}, nil
}

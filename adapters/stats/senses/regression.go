package senses

import (
	"fmt"
	"math"

	"goeda/domain/core"
	domainstats "goeda/domain/stats"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// FitLinear fits y = intercept + slope·x by ordinary least squares and derives
// two-sided confidence intervals for both coefficients from the t distribution
// with n-2 degrees of freedom.
func FitLinear(x, y []float64, level float64) (domainstats.Regression, error) {
	if len(x) < MinPairs {
		return domainstats.Regression{}, core.NewInsufficientDataError("linear regression", len(x), MinPairs)
	}
	if level <= 0 || level >= 1 {
		return domainstats.Regression{}, fmt.Errorf("%w: confidence level %v outside (0, 1)", core.ErrInvalidArgument, level)
	}

	meanX := stat.Mean(x, nil)
	sxx := 0.0
	for _, v := range x {
		sxx += (v - meanX) * (v - meanX)
	}
	if sxx == 0 {
		return domainstats.Regression{}, fmt.Errorf("%w: linear regression requires non-constant x", core.ErrInsufficientData)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - (intercept + slope*x[i])
	}
	n := float64(len(x))
	df := n - 2
	sse := floats.Dot(residuals, residuals)
	sigma := math.Sqrt(sse / df)

	seSlope := sigma / math.Sqrt(sxx)
	seIntercept := sigma * math.Sqrt(1/n+meanX*meanX/sxx)
	tCrit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - (1-level)/2)

	return domainstats.Regression{
		Slope:           slope,
		Intercept:       intercept,
		SlopeCI:         domainstats.Interval{Lower: slope - tCrit*seSlope, Upper: slope + tCrit*seSlope},
		InterceptCI:     domainstats.Interval{Lower: intercept - tCrit*seIntercept, Upper: intercept + tCrit*seIntercept},
		ConfidenceLevel: level,
		RSquared:        rSquared(x, y, intercept, slope),
		ResidualStdErr:  sigma,
		DF:              int(df),
	}, nil
}

// Predict evaluates the fitted line at every x
func Predict(fit domainstats.Regression, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = fit.Intercept + fit.Slope*v
	}
	return out
}

// rSquared is 0 rather than NaN for a constant response
func rSquared(x, y []float64, intercept, slope float64) float64 {
	if stat.Variance(y, nil) == 0 {
		return 0
	}
	return stat.RSquared(x, y, nil, intercept, slope)
}

package profiling

import (
	"math"
	"sort"

	"goeda/domain/core"
	domainstats "goeda/domain/stats"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the p-quantile of data using linear interpolation between
// order statistics at position (n-1)p. data does not need to be sorted.
func Quantile(data []float64, p float64) (float64, error) {
	if len(data) == 0 {
		return 0, core.NewInsufficientDataError("quantile", 0, 1)
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return quantileSorted(sorted, p), nil
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := float64(len(sorted)-1) * p
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	frac := pos - lo
	return sorted[int(lo)] + frac*(sorted[int(hi)]-sorted[int(lo)])
}

// Quartiles returns the 0.25, 0.5 and 0.75 quantiles of data
func Quartiles(data []float64) (domainstats.Quantiles, error) {
	if len(data) == 0 {
		return domainstats.Quantiles{}, core.NewInsufficientDataError("quartiles", 0, 1)
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return domainstats.Quantiles{
		Q25: quantileSorted(sorted, 0.25),
		Q50: quantileSorted(sorted, 0.5),
		Q75: quantileSorted(sorted, 0.75),
	}, nil
}

// Skewness computes the adjusted Fisher-Pearson coefficient of skewness.
// Returns 0 for fewer than three values or a constant sample.
func Skewness(data []float64) float64 {
	if len(data) < 3 {
		return 0
	}
	if stat.Variance(data, nil) == 0 {
		return 0
	}
	return stat.Skew(data, nil)
}

// finite drops NaN and infinite values
func finite(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

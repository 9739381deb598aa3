package senses

import (
	"math"

	domainstats "goeda/domain/stats"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Correlate computes the numeric x numeric association measures
func Correlate(x, y []float64) (domainstats.Correlation, error) {
	if err := requirePairs("correlation", x, y); err != nil {
		return domainstats.Correlation{}, err
	}

	pearson := stat.Correlation(x, y, nil)
	spearman, spearmanP := Spearman(x, y)
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	cov := stat.Covariance(x, y, nil)

	return domainstats.Correlation{
		Pearson:      pearson,
		PearsonP:     correlationPValue(pearson, len(x)),
		Spearman:     spearman,
		SpearmanP:    spearmanP,
		RSquared:     stat.RSquared(x, y, nil, alpha, beta),
		CorrelationR: cov / (stat.StdDev(x, nil) * stat.StdDev(y, nil)),
		Covariance:   cov,
		SampleSize:   len(x),
	}, nil
}

// correlationPValue tests r = 0 with a t statistic on n-2 degrees of freedom
func correlationPValue(r float64, n int) float64 {
	if n < MinPairs || math.IsNaN(r) {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(t))
}

package senses

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Spearman returns the rank correlation of x and y with its two-sided p-value
func Spearman(x, y []float64) (float64, float64) {
	rho := stat.Correlation(Ranks(x), Ranks(y), nil)
	return rho, correlationPValue(rho, len(x))
}

// Ranks converts values to 1-based ranks; tied values share their average rank
func Ranks(data []float64) []float64 {
	n := len(data)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return data[order[a]] < data[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && data[order[j]] == data[order[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}
	return ranks
}

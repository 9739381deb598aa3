package senses

import (
	"fmt"

	"goeda/domain/core"

	"gonum.org/v1/gonum/floats"
)

// Clustering is the outcome of a k-means run
type Clustering struct {
	Assignments []int
	Centroids   [][]float64
	Iterations  int
}

// KMeans partitions points into k clusters with Lloyd's algorithm.
// Seeding is deterministic: the first point, then repeatedly the point farthest
// from its nearest chosen centroid (earliest point wins ties).
func KMeans(points [][]float64, k, maxIter int) (Clustering, error) {
	if k < 1 {
		return Clustering{}, fmt.Errorf("%w: k must be positive, got %d", core.ErrInvalidArgument, k)
	}
	if len(points) < k {
		return Clustering{}, core.NewInsufficientDataError("k-means", len(points), k)
	}
	if maxIter < 1 {
		maxIter = 1
	}

	centroids := seed(points, k)
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	iter := 0
	for iter < maxIter {
		iter++
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != assignments[i] {
				assignments[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		updateCentroids(points, assignments, centroids)
	}

	return Clustering{Assignments: assignments, Centroids: centroids, Iterations: iter}, nil
}

func seed(points [][]float64, k int) [][]float64 {
	centroids := [][]float64{clonePoint(points[0])}
	for len(centroids) < k {
		best, bestDist := 0, -1.0
		for i, p := range points {
			d := floats.Distance(p, centroids[nearest(p, centroids)], 2)
			if d > bestDist {
				best, bestDist = i, d
			}
		}
		centroids = append(centroids, clonePoint(points[best]))
	}
	return centroids
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, floats.Distance(p, centroids[0], 2)
	for c := 1; c < len(centroids); c++ {
		if d := floats.Distance(p, centroids[c], 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// updateCentroids moves each centroid to the mean of its members; empty clusters keep their centroid
func updateCentroids(points [][]float64, assignments []int, centroids [][]float64) {
	dim := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(sums[assignments[i]], p)
		counts[assignments[i]]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/counts[c], sums[c])
		centroids[c] = sums[c]
	}
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}

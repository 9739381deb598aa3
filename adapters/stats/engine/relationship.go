package engine

import (
	"goeda/adapters/stats/senses"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
)

// groupedSample is the paired-clean categorical × numeric sample
type groupedSample struct {
	labels    []string
	values    []float64
	covariate []float64
	rows      []int
}

// cleanGrouped keeps rows with a label, a finite value and, when present, a finite covariate
func cleanGrouped(group, value dataset.Column, covariate *dataset.Column) groupedSample {
	values := numericValues(value)
	var cov []float64
	if covariate != nil {
		cov = numericValues(*covariate)
	}

	var s groupedSample
	for i, cell := range group.Values {
		if cell.IsMissing() || !senses.Valid(values[i]) {
			continue
		}
		if cov != nil && !senses.Valid(cov[i]) {
			continue
		}
		s.labels = append(s.labels, cell.String())
		s.values = append(s.values, values[i])
		if cov != nil {
			s.covariate = append(s.covariate, cov[i])
		}
		s.rows = append(s.rows, i)
	}
	return s
}

// analyzeCategorical runs ANOVA, ANCOVA, the code-based regression and k-means
// for a categorical group column against a numeric value column.
func (e *StatsEngine) analyzeCategorical(group, value dataset.Column, covariate *dataset.Column) (domainstats.Bivariate, error) {
	sample := cleanGrouped(group, value, covariate)
	e.logger.Debug("%s x %s: %d complete rows of %d", group.Name, value.Name, len(sample.rows), group.Len())

	anova, err := senses.OneWayANOVA(sample.labels, sample.values)
	if err != nil {
		return domainstats.Bivariate{}, err
	}
	ancova, err := senses.ANCOVA(sample.labels, sample.values, sample.covariate)
	if err != nil {
		return domainstats.Bivariate{}, err
	}

	levels := senses.Levels(sample.labels)
	codeOf := make(map[string]float64, len(levels))
	for i, l := range levels {
		codeOf[l] = float64(i)
	}
	codes := make([]float64, len(sample.labels))
	points := make([][]float64, len(sample.labels))
	for i, l := range sample.labels {
		codes[i] = codeOf[l]
		points[i] = []float64{codes[i], sample.values[i]}
	}

	fit, err := senses.FitLinear(codes, sample.values, e.opts.ConfidenceLevel)
	if err != nil {
		return domainstats.Bivariate{}, err
	}
	predictions := senses.Predict(fit, codes)

	clusters, err := senses.KMeans(points, e.opts.Clusters, e.opts.MaxIterations)
	if err != nil {
		return domainstats.Bivariate{}, err
	}

	grouping := domainstats.Grouping{
		Labels:     levels,
		Regression: fit,
		Centroids:  clusters.Centroids,
		Iterations: clusters.Iterations,
		Rows:       make([]domainstats.GroupedRow, len(sample.rows)),
	}
	for i, row := range sample.rows {
		grouping.Rows[i] = domainstats.GroupedRow{
			Row:        row,
			Label:      sample.labels[i],
			Code:       codes[i],
			Value:      sample.values[i],
			Prediction: predictions[i],
			Cluster:    clusters.Assignments[i],
		}
	}

	return domainstats.Bivariate{
		X:        group.Name,
		Y:        value.Name,
		Kind:     domainstats.AnalysisCategorical,
		ANOVA:    &anova,
		ANCOVA:   &ancova,
		Grouping: &grouping,
	}, nil
}

package senses

import (
	"math"
	"testing"

	"goeda/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPairs(t *testing.T) {
	x := []float64{1, math.NaN(), 3, 4, math.Inf(1)}
	y := []float64{2, 4, math.NaN(), 8, 10}

	cx, cy, rows, err := CleanPairs(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4}, cx)
	assert.Equal(t, []float64{2, 8}, cy)
	assert.Equal(t, []int{0, 3}, rows)

	_, _, _, err = CleanPairs([]float64{1}, nil)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
}

func TestCorrelatePerfectLine(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}

	c, err := Correlate(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.Pearson, 1e-12)
	assert.InDelta(t, 1.0, c.Spearman, 1e-12)
	assert.InDelta(t, 1.0, c.RSquared, 1e-12)
	assert.InDelta(t, 1.0, c.CorrelationR, 1e-12)
	assert.InDelta(t, 0.0, c.PearsonP, 1e-9)
	assert.Equal(t, 4, c.SampleSize)
}

func TestCorrelateRejectsDegenerateInput(t *testing.T) {
	_, err := Correlate([]float64{1, 2}, []float64{3, 4})
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = Correlate([]float64{1, 1, 1}, []float64{3, 4, 5})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestRanksAverageTies(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, Ranks([]float64{1, 2, 2, 100}))
	assert.Equal(t, []float64{3, 1, 2}, Ranks([]float64{30, -1, 0}))
}

func TestFitLinear(t *testing.T) {
	fit, err := FitLinear([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fit.Slope, 1e-12)
	assert.InDelta(t, 0.0, fit.Intercept, 1e-12)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-12)
	assert.InDelta(t, 2.0, fit.SlopeCI.Lower, 1e-9)
	assert.InDelta(t, 2.0, fit.SlopeCI.Upper, 1e-9)

	fit, err = FitLinear([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 5, 4, 5}, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, fit.Slope, 1e-12)
	assert.InDelta(t, 2.2, fit.Intercept, 1e-12)
	assert.InDelta(t, 0.6, fit.RSquared, 1e-12)
	assert.InDelta(t, -0.300132, fit.SlopeCI.Lower, 1e-5)
	assert.InDelta(t, 1.500132, fit.SlopeCI.Upper, 1e-5)
	assert.InDelta(t, -0.785399, fit.InterceptCI.Lower, 1e-5)
	assert.Equal(t, 3, fit.DF)

	assert.Equal(t, []float64{2.8, 3.4}, roundAll(Predict(fit, []float64{1, 2})))
}

func TestFitLinearValidation(t *testing.T) {
	_, err := FitLinear([]float64{1, 2}, []float64{1, 2}, 0.95)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = FitLinear([]float64{1, 2, 3}, []float64{1, 2, 3}, 1.5)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = FitLinear([]float64{2, 2, 2}, []float64{1, 2, 3}, 0.95)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func groupedFixture() ([]string, []float64) {
	return []string{"a", "a", "a", "b", "b", "b", "c", "c", "c"},
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 10}
}

func TestOneWayANOVA(t *testing.T) {
	labels, values := groupedFixture()

	table, err := OneWayANOVA(labels, values)
	require.NoError(t, err)

	factor, ok := table.Term(FactorTerm)
	require.True(t, ok)
	assert.Equal(t, 2.0, factor.DF)
	assert.InDelta(t, 60.222222, factor.SumSq, 1e-6)
	require.NotNil(t, factor.F)
	assert.InDelta(t, 20.846154, *factor.F, 1e-6)
	require.NotNil(t, factor.PValue)
	// F(2, d) survival has the closed form (1 + 2f/d)^(-d/2)
	assert.InDelta(t, math.Pow(1+2*20.846153846153847/6, -3), *factor.PValue, 1e-9)

	residual, ok := table.Term(ResidualTerm)
	require.True(t, ok)
	assert.Equal(t, 6.0, residual.DF)
	assert.InDelta(t, 8.666667, residual.SumSq, 1e-6)
	assert.Nil(t, residual.F)
	assert.Nil(t, residual.PValue)
}

func TestANCOVAWithoutCovariateMatchesANOVA(t *testing.T) {
	labels, values := groupedFixture()

	anova, err := OneWayANOVA(labels, values)
	require.NoError(t, err)
	ancova, err := ANCOVA(labels, values, nil)
	require.NoError(t, err)

	require.Len(t, ancova.Rows, 2)
	for i := range anova.Rows {
		assert.InDelta(t, anova.Rows[i].SumSq, ancova.Rows[i].SumSq, 1e-9)
		assert.Equal(t, anova.Rows[i].DF, ancova.Rows[i].DF)
	}
}

func TestANCOVAWithCovariate(t *testing.T) {
	labels, values := groupedFixture()
	covariate := []float64{0.5, 1, 2, 1, 3, 2, 4, 2, 5}

	table, err := ANCOVA(labels, values, covariate)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Contains(t, table.Model, CovariateTerm)

	cov, ok := table.Term(CovariateTerm)
	require.True(t, ok)
	assert.Equal(t, 1.0, cov.DF)
	assert.GreaterOrEqual(t, cov.SumSq, 0.0)

	residual, _ := table.Term(ResidualTerm)
	assert.Equal(t, 5.0, residual.DF)

	anova, _ := OneWayANOVA(labels, values)
	anovaResidual, _ := anova.Term(ResidualTerm)
	assert.LessOrEqual(t, residual.SumSq, anovaResidual.SumSq+1e-9, "a covariate never increases the residual")
}

func TestVarianceTablesNeedGroups(t *testing.T) {
	_, err := OneWayANOVA([]string{"a", "a", "a"}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = ANCOVA([]string{"a", "b"}, []float64{1, 2}, nil)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = ANCOVA([]string{"a", "b", "a"}, []float64{1, 2, 3}, []float64{1})
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
}

func TestOneWayANOVAZeroResidual(t *testing.T) {
	table, err := OneWayANOVA([]string{"a", "a", "b", "b"}, []float64{1, 1, 5, 5})
	require.NoError(t, err)

	factor, _ := table.Term(FactorTerm)
	assert.InDelta(t, 16.0, factor.SumSq, 1e-12)
	assert.Nil(t, factor.F, "no F ratio without residual variance")
}

func TestKMeansSeparatesGroups(t *testing.T) {
	points := [][]float64{{0, 1}, {0, 2}, {0, 1.5}, {1, 50}, {1, 52}, {1, 51}}

	result, err := KMeans(points, 2, 100)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 0, 1, 1, 1}, result.Assignments)
	assert.InDelta(t, 1.5, result.Centroids[0][1], 1e-12)
	assert.InDelta(t, 51, result.Centroids[1][1], 1e-12)
	assert.LessOrEqual(t, result.Iterations, 100)

	again, err := KMeans(points, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, result, again, "seeding is deterministic")
}

func TestKMeansValidation(t *testing.T) {
	_, err := KMeans([][]float64{{1, 1}}, 2, 10)
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = KMeans([][]float64{{1, 1}}, 0, 10)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func roundAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = math.Round(f*1e9) / 1e9
	}
	return out
}

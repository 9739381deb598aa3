package engine

import (
	"math"
	"testing"

	"goeda/domain/core"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = internal.NewLogger(internal.LogLevelError)

func floatColumn(name string, values ...float64) dataset.Column {
	cells := make([]dataset.Cell, len(values))
	for i, v := range values {
		cells[i] = dataset.NewFloat(v)
	}
	return dataset.NewColumn(name, dataset.TypeFloat, cells)
}

func labelColumn(name string, typ dataset.ColumnType, values ...string) dataset.Column {
	cells := make([]dataset.Cell, len(values))
	for i, v := range values {
		cells[i] = dataset.NewString(v)
	}
	return dataset.NewColumn(name, typ, cells)
}

func TestAnalyzeNumericPair(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)

	result, err := e.Analyze(floatColumn("x", 1, 2, 3, 4), floatColumn("y", 2, 4, 6, 8), nil)
	require.NoError(t, err)

	assert.Equal(t, domainstats.AnalysisNumeric, result.Kind)
	require.NotNil(t, result.Correlation)
	require.NotNil(t, result.Regression)
	assert.InDelta(t, 1.0, result.Correlation.Pearson, 1e-12)
	assert.InDelta(t, 1.0, result.Correlation.RSquared, 1e-12)
	assert.InDelta(t, 2.0, result.Regression.Slope, 1e-12)
	assert.InDelta(t, 0.0, result.Regression.Intercept, 1e-12)
}

func TestAnalyzeNumericPairIsPairClean(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)
	x := floatColumn("x", 1, 2, math.NaN(), 3, 4, math.Inf(1))
	y := floatColumn("y", 2, 4, 100, 6, 8, 3)

	result, err := e.Analyze(x, y, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Correlation.SampleSize)
	assert.Equal(t, 2, result.Correlation.DroppedPairs)
	assert.InDelta(t, 2.0, result.Regression.Slope, 1e-12)
}

func TestAnalyzeCategoricalPair(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)
	group := labelColumn("g", dataset.TypeCategorical, "b", "a", "b", "a", "", "b", "a")
	value := floatColumn("v", 50, 1, 52, 2, 7, 51, 3)

	result, err := e.Analyze(group, value, nil)
	require.NoError(t, err)

	assert.Equal(t, domainstats.AnalysisCategorical, result.Kind)
	require.NotNil(t, result.ANOVA)
	require.NotNil(t, result.ANCOVA)
	require.NotNil(t, result.Grouping)

	g := result.Grouping
	assert.Equal(t, []string{"a", "b"}, g.Labels)
	require.Len(t, g.Rows, 6, "the row with a missing label is dropped")
	assert.Equal(t, 0, g.Rows[0].Row)
	assert.Equal(t, 1.0, g.Rows[0].Code)
	assert.Equal(t, 5, g.Rows[4].Row)

	assert.InDelta(t, 49.0, g.Regression.Slope, 1e-9)
	assert.InDelta(t, 51.0, g.Rows[0].Prediction, 1e-9)
	assert.NotEqual(t, g.Rows[0].Cluster, g.Rows[1].Cluster)
	assert.Equal(t, g.Rows[0].Cluster, g.Rows[2].Cluster)

	factor, ok := result.ANOVA.Term("C(group)")
	require.True(t, ok)
	assert.Equal(t, 1.0, factor.DF)
}

func TestAnalyzeSwapsNumericCategorical(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)
	group := labelColumn("g", dataset.TypeString, "a", "a", "b", "b", "c", "c")
	value := floatColumn("v", 1, 2, 5, 6, 9, 11)

	result, err := e.Analyze(value, group, nil)
	require.NoError(t, err)
	assert.True(t, result.Swapped)
	assert.Equal(t, "g", result.X)
	assert.Equal(t, "v", result.Y)
}

func TestAnalyzeUnavailable(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)
	a := labelColumn("a", dataset.TypeString, "x", "y")
	b := labelColumn("b", dataset.TypeCategorical, "p", "q")
	when := dataset.NewColumn("t", dataset.TypeDatetime, []dataset.Cell{dataset.Missing(), dataset.Missing()})

	tests := []struct {
		name string
		x, y dataset.Column
	}{
		{"categorical pair", a, b},
		{"datetime", when, floatColumn("v", 1, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Analyze(tt.x, tt.y, nil)
			require.NoError(t, err)
			assert.False(t, result.Available())
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestAnalyzeColumns(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)
	ds := dataset.MustNew(
		labelColumn("g", dataset.TypeCategorical, "a", "a", "a", "b", "b", "b"),
		floatColumn("v", 1, 2, 3, 7, 8, 10),
		floatColumn("w", 0.5, 1, 3, 1, 2, 2.5),
		labelColumn("s", dataset.TypeString, "p", "q", "r", "s", "t", "u"),
	)

	result, err := e.AnalyzeColumns(ds, "", "v", "")
	require.NoError(t, err)
	assert.Equal(t, domainstats.AnalysisUnavailable, result.Kind)

	result, err = e.AnalyzeColumns(ds, "g", "v", "w")
	require.NoError(t, err)
	require.NotNil(t, result.ANCOVA)
	assert.Len(t, result.ANCOVA.Rows, 3)

	_, err = e.AnalyzeColumns(ds, "g", "nope", "")
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	_, err = e.AnalyzeColumns(ds, "g", "v", "s")
	assert.ErrorIs(t, err, core.ErrUnsupportedType)
}

func TestAnalyzeInsufficientPairs(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)
	_, err := e.Analyze(floatColumn("x", 1, math.NaN()), floatColumn("y", 1, 2), nil)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestAnalyzeSwappedFailureReturnsZeroResult(t *testing.T) {
	e := NewStatsEngine(DefaultOptions(), quietLogger)
	group := labelColumn("g", dataset.TypeCategorical, "a", "b")
	value := floatColumn("v", 1, 2)

	result, err := e.Analyze(value, group, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	assert.False(t, result.Swapped)
	assert.Equal(t, domainstats.Bivariate{}, result)
}

package profiling

import (
	"math"
	"testing"

	"goeda/domain/core"
	"goeda/domain/dataset"
	"goeda/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = internal.NewLogger(internal.LogLevelError)

func TestQuantileLinearInterpolation(t *testing.T) {
	data := []float64{100, 2, 1, 2}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2},
		{0.75, 26.5},
		{1, 100},
	}
	for _, tt := range tests {
		got, err := Quantile(data, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "p=%v", tt.p)
	}

	assert.Equal(t, []float64{100, 2, 1, 2}, data, "input must not be reordered")

	_, err := Quantile(nil, 0.5)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestSkewness(t *testing.T) {
	assert.Zero(t, Skewness([]float64{1, 2}))
	assert.Zero(t, Skewness([]float64{3, 3, 3, 3}))
	assert.InDelta(t, 0, Skewness([]float64{1, 2, 3}), 1e-12)

	// pandas: pd.Series([1, 2, 2, 100]).skew()
	assert.InDelta(t, 1.99945, Skewness([]float64{1, 2, 2, 100}), 1e-4)
}

func TestDescribeCategorical(t *testing.T) {
	p := NewProfiler(quietLogger)
	col := dataset.NewColumn("c", dataset.TypeString, []dataset.Cell{
		dataset.NewString("a"), dataset.NewString("b"), dataset.NewString("a"), dataset.NewString("a"),
	})

	result, err := p.Describe(col)
	require.NoError(t, err)

	require.Len(t, result.Mode.Values, 1)
	assert.Equal(t, "a", result.Mode.Values[0].String())
	assert.Equal(t, 3, result.Mode.Count)

	require.Len(t, result.ValueCounts, 2)
	assert.Equal(t, "a", result.ValueCounts[0].Value.String())
	assert.Equal(t, 3, result.ValueCounts[0].Count)
	assert.InDelta(t, 0.75, result.ValueCounts[0].Proportion, 1e-12)
	assert.Equal(t, "b", result.ValueCounts[1].Value.String())
	assert.InDelta(t, 0.25, result.ValueCounts[1].Proportion, 1e-12)

	assert.Nil(t, result.Numeric)
	assert.Len(t, result.Unique, 2)
}

func TestDescribeNumeric(t *testing.T) {
	p := NewProfiler(quietLogger)
	col := dataset.NewColumn("x", dataset.TypeInteger, []dataset.Cell{
		dataset.NewInteger(1), dataset.NewInteger(2), dataset.NewInteger(2), dataset.Missing(), dataset.NewInteger(100),
	})

	result, err := p.Describe(col)
	require.NoError(t, err)
	require.NotNil(t, result.Numeric)

	n := result.Numeric
	assert.Equal(t, 1, result.NACount)
	assert.Equal(t, 4, n.Count)
	assert.InDelta(t, 26.25, n.Mean, 1e-12)
	assert.InDelta(t, 2, n.Median, 1e-12)
	assert.InDelta(t, 99, n.Range, 1e-12)
	assert.InDelta(t, 2417.5833333, n.Variance, 1e-6)
	assert.InDelta(t, math.Sqrt(2417.5833333333335), n.Std, 1e-9)
	assert.InDelta(t, 1.75, n.Quantiles.Q25, 1e-12)
	assert.InDelta(t, 26.5, n.Quantiles.Q75, 1e-12)

	assert.Equal(t, 2, result.Mode.Count)
	assert.Equal(t, "2", result.Mode.Values[0].String())
}

func TestDescribeModeTiesAreSorted(t *testing.T) {
	p := NewProfiler(quietLogger)
	col := dataset.NewColumn("x", dataset.TypeInteger, []dataset.Cell{
		dataset.NewInteger(5), dataset.NewInteger(3), dataset.NewInteger(5), dataset.NewInteger(3),
	})

	result, err := p.Describe(col)
	require.NoError(t, err)
	require.Len(t, result.Mode.Values, 2)
	assert.Equal(t, "3", result.Mode.Values[0].String())
	assert.Equal(t, "5", result.Mode.Values[1].String())
	assert.Equal(t, "5", result.ValueCounts[0].Value.String(), "value counts keep first appearance on ties")
}

func TestDescribeCountsAddUp(t *testing.T) {
	p := NewProfiler(quietLogger)
	columns := []dataset.Column{
		dataset.NewColumn("empty", dataset.TypeInteger, []dataset.Cell{dataset.Missing(), dataset.Missing()}),
		dataset.NewColumn("mixed", dataset.TypeUnknown, []dataset.Cell{
			dataset.NewString("a"), dataset.NewInteger(1), dataset.Missing(), dataset.NewFloat(2.5),
		}),
		dataset.NewColumn("single", dataset.TypeFloat, []dataset.Cell{dataset.NewFloat(4.5)}),
	}

	for _, col := range columns {
		t.Run(col.Name, func(t *testing.T) {
			result, err := p.Describe(col)
			require.NoError(t, err)
			assert.Equal(t, col.Len(), result.CountedTotal())
		})
	}
}

func TestDescribeSingleValueHasZeroSpread(t *testing.T) {
	p := NewProfiler(quietLogger)
	result, err := p.Describe(dataset.NewColumn("x", dataset.TypeFloat, []dataset.Cell{dataset.NewFloat(4.5)}))
	require.NoError(t, err)
	require.NotNil(t, result.Numeric)
	assert.Zero(t, result.Numeric.Std)
	assert.Zero(t, result.Numeric.Variance)
}

package outliers

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

func ints(name string, values ...int) dataset.Column {
	cells := make([]dataset.Cell, len(values))
	for i, v := range values {
		cells[i] = dataset.NewInteger(int64(v))
	}
	return dataset.NewColumn(name, dataset.TypeInteger, cells)
}

func TestParseMethods(t *testing.T) {
	d, err := ParseDetectMethod(" IQR ")
	require.NoError(t, err)
	assert.Equal(t, DetectIQR, d)

	f, err := ParseFixMethod("cap")
	require.NoError(t, err)
	assert.Equal(t, FixCap, f)

	_, err = ParseDetectMethod("dbscan")
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
	_, err = ParseFixMethod("winsorize")
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
}

func TestDetectIQR(t *testing.T) {
	det := NewDetector(DefaultOptions(), quietLogger)
	col := dataset.NewColumn("x", dataset.TypeInteger, []dataset.Cell{
		dataset.NewInteger(1), dataset.NewInteger(2), dataset.NewInteger(2), dataset.Missing(), dataset.NewInteger(100),
	})

	report, err := det.Detect(col, DetectIQR)
	require.NoError(t, err)

	assert.Equal(t, []int{4}, report.Indices)
	assert.InDelta(t, 1.75-1.5*24.75, report.LowerBound, 1e-12)
	assert.InDelta(t, 26.5+1.5*24.75, report.UpperBound, 1e-12)
	assert.Equal(t, report.UpperBound, report.ValueUpper)
}

func TestDetectZScore(t *testing.T) {
	det := NewDetector(DefaultOptions(), quietLogger)
	values := make([]int, 0, 21)
	for i := 0; i < 20; i++ {
		values = append(values, 10)
	}
	values = append(values, 1000)

	report, err := det.Detect(ints("x", values...), DetectZScore)
	require.NoError(t, err)

	assert.Equal(t, []int{20}, report.Indices)
	assert.Equal(t, -3.0, report.LowerBound)
	assert.Equal(t, 3.0, report.UpperBound)
	assert.Less(t, report.ValueUpper, 1000.0)
}

func TestDetectIsDeterministic(t *testing.T) {
	det := NewDetector(DefaultOptions(), quietLogger)
	col := ints("x", 5, 7, 3, 9, 120, 4, -80, 6)

	for _, method := range []DetectMethod{DetectZScore, DetectIQR} {
		first, err := det.Detect(col, method)
		require.NoError(t, err)
		second, err := det.Detect(col, method)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestDetectRejectsText(t *testing.T) {
	det := NewDetector(DefaultOptions(), quietLogger)
	col := dataset.NewColumn("c", dataset.TypeString, []dataset.Cell{dataset.NewString("a")})

	_, err := det.Detect(col, DetectIQR)
	require.Error(t, err)
	assert.True(t, core.IsUnsupportedTypeError(err))
}

func TestFixCapContainsValues(t *testing.T) {
	det := NewDetector(DefaultOptions(), quietLogger)
	fix := NewCorrector(DefaultOptions(), quietLogger)
	col := ints("x", 1, 2, 2, 100, -300, 3)

	for _, method := range []DetectMethod{DetectZScore, DetectIQR} {
		t.Run(string(method), func(t *testing.T) {
			report, err := det.Detect(col, method)
			require.NoError(t, err)

			fixed, err := fix.Fix(col, report, FixCap)
			require.NoError(t, err)

			for i, v := range fixed.Values {
				f, ok := v.Float()
				require.True(t, ok)
				assert.GreaterOrEqual(t, f, report.ValueLower, "row %d", i)
				assert.LessOrEqual(t, f, report.ValueUpper, "row %d", i)
			}
		})
	}
}

func TestFixCapScenario(t *testing.T) {
	det := NewDetector(DefaultOptions(), quietLogger)
	fix := NewCorrector(DefaultOptions(), quietLogger)
	col := ints("x", 1, 2, 2, 100)

	report, err := det.Detect(col, DetectIQR)
	require.NoError(t, err)
	fixed, err := fix.Fix(col, report, FixCap)
	require.NoError(t, err)

	f, _ := fixed.Values[3].Float()
	assert.InDelta(t, 63.625, f, 1e-12)
	assert.Equal(t, dataset.TypeFloat, fixed.Type)
}

func TestFixCapUsesReportBounds(t *testing.T) {
	fix := NewCorrector(DefaultOptions(), quietLogger)
	col := ints("x", 1, 2, 2, 100)
	std := math.Sqrt(1813.1875)

	tests := []struct {
		name   string
		report domainstats.OutlierReport
		want   float64
	}{
		{
			name:   "value bounds",
			report: domainstats.OutlierReport{Indices: []int{3}, LowerBound: -0.25, UpperBound: 4.75},
			want:   4.75,
		},
		{
			name:   "iqr bounds",
			report: domainstats.OutlierReport{Method: "iqr", Indices: []int{3}, LowerBound: -0.25, UpperBound: 4.75},
			want:   4.75,
		},
		{
			name:   "zscore bounds map to mean plus z sigma",
			report: domainstats.OutlierReport{Method: "zscore", Indices: []int{3}, LowerBound: -1, UpperBound: 1},
			want:   26.25 + std,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed, err := fix.Fix(col, tt.report, FixCap)
			require.NoError(t, err)

			f, ok := fixed.Values[3].Float()
			require.True(t, ok)
			assert.InDelta(t, tt.want, f, 1e-9)
			first, _ := fixed.Values[0].Float()
			assert.Equal(t, 1.0, first)
		})
	}
}

func TestFixRemove(t *testing.T) {
	fix := NewCorrector(DefaultOptions(), quietLogger)
	col := ints("x", 1, 2, 2, 100)
	report := domainstats.OutlierReport{Indices: []int{3}}

	fixed, err := fix.Fix(col, report, FixRemove)
	require.NoError(t, err)
	assert.Equal(t, 4, fixed.Len())
	assert.True(t, fixed.Values[3].IsMissing())
	assert.False(t, col.Values[3].IsMissing(), "input is not modified")
}

func TestFixReplacementBasis(t *testing.T) {
	col := ints("x", 1, 2, 2, 100)
	report := domainstats.OutlierReport{Indices: []int{3}}

	including := NewCorrector(DefaultOptions(), quietLogger)
	fixed, err := including.Fix(col, report, FixMean)
	require.NoError(t, err)
	f, _ := fixed.Values[3].Float()
	assert.InDelta(t, 26.25, f, 1e-12)

	opts := DefaultOptions()
	opts.ReplacementIncludesOutliers = false
	excluding := NewCorrector(opts, quietLogger)
	fixed, err = excluding.Fix(col, report, FixMedian)
	require.NoError(t, err)
	v, ok := fixed.Values[3].Int()
	require.True(t, ok)
	assert.Equal(t, int64(2), v)
}

func TestFixRejectsForeignRows(t *testing.T) {
	fix := NewCorrector(DefaultOptions(), quietLogger)
	_, err := fix.Fix(ints("x", 1, 2), domainstats.OutlierReport{Indices: []int{5}}, FixRemove)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
}

func TestHandleBatchIsolatesColumns(t *testing.T) {
	h := NewHandler(DefaultOptions(), quietLogger)
	ds := dataset.MustNew(
		ints("a", 1, 2, 2, 100),
		dataset.NewColumn("c", dataset.TypeString, []dataset.Cell{
			dataset.NewString("w"), dataset.NewString("x"), dataset.NewString("y"), dataset.NewString("z"),
		}),
		ints("b", 5, 5, 6, 5),
	)

	out, outcomes, reports := h.Handle(ds, []string{"a", "c", "b"}, DetectIQR, FixRemove)
	require.Len(t, outcomes, 3)
	require.Len(t, reports, 2)

	assert.True(t, outcomes[0].Applied)
	assert.Equal(t, 1, outcomes[0].Changed)
	assert.True(t, outcomes[1].Failed())
	assert.True(t, core.IsUnsupportedTypeError(outcomes[1].Err))
	assert.True(t, outcomes[2].Applied)

	a, _ := out.Column("a")
	assert.True(t, a.Values[3].IsMissing())
	c, _ := out.Column("c")
	assert.Equal(t, "w", c.Values[0].String())
}

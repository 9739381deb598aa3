package dataset

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"goeda/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellConstructorsNormalizeMissing(t *testing.T) {
	assert.True(t, NewString("").IsMissing())
	assert.True(t, NewFloat(math.NaN()).IsMissing())
	assert.False(t, NewFloat(math.Inf(1)).IsMissing())
	assert.True(t, Cell{}.IsMissing())
}

func TestCellString(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"integer", NewInteger(42), "42"},
		{"integral float", NewFloat(2), "2.0"},
		{"fractional float", NewFloat(2.5), "2.5"},
		{"datetime", NewDatetime(ts), "2024-03-05T14:30:00"},
		{"string", NewString("abc"), "abc"},
		{"missing", Missing(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.String())
		})
	}
}

func TestCompareValueOrder(t *testing.T) {
	assert.Equal(t, -1, Compare(NewInteger(2), NewFloat(10)))
	assert.Equal(t, 0, Compare(NewInteger(2), NewFloat(2)))
	assert.Equal(t, 1, Compare(NewString("b"), NewString("a")))
	assert.Equal(t, -1, Compare(Missing(), NewInteger(0)))
}

func TestCellJSON(t *testing.T) {
	cells := []Cell{NewInteger(1), NewFloat(2.5), Missing(), NewString("x"), NewDatetime(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))}
	data, err := json.Marshal(cells)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2.5, null, "x", "2020-01-02T03:04:05"]`, string(data))

	var decoded []Cell
	require.NoError(t, json.Unmarshal([]byte(`[1, 2.5, null, "x", true, 3.0]`), &decoded))
	require.Len(t, decoded, 6)
	assert.Equal(t, KindInteger, decoded[0].Kind())
	assert.Equal(t, KindFloat, decoded[1].Kind())
	assert.True(t, decoded[2].IsMissing())
	assert.Equal(t, "x", decoded[3].String())
	assert.Equal(t, "true", decoded[4].String())
	assert.Equal(t, KindFloat, decoded[5].Kind())
}

func TestParseColumnType(t *testing.T) {
	for input, want := range map[string]ColumnType{
		"Integer": TypeInteger, "int64": TypeInteger, "float64": TypeFloat,
		"datetime64": TypeDatetime, "object": TypeString, "category": TypeCategorical,
		"Unknown": TypeUnknown, "": TypeUnknown,
	} {
		got, err := ParseColumnType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseColumnType("blob")
	assert.Error(t, err)
}

func TestDatasetValidation(t *testing.T) {
	a := NewColumn("a", TypeInteger, []Cell{NewInteger(1), NewInteger(2)})
	b := NewColumn("b", TypeInteger, []Cell{NewInteger(1)})

	_, err := New(a, b)
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	_, err = New(a, a)
	assert.Error(t, err)

	ds, err := New(a)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())

	_, err = ds.Column("missing")
	assert.True(t, core.IsNotFoundError(err))
}

func TestDatasetCopyOnWrite(t *testing.T) {
	ds := MustNew(NewColumn("a", TypeInteger, []Cell{NewInteger(1), NewInteger(2), NewInteger(3)}))

	col, err := ds.Column("a")
	require.NoError(t, err)
	col.Values[0] = NewInteger(99)

	updated, err := ds.WithColumn(col)
	require.NoError(t, err)

	orig, _ := ds.Column("a")
	assert.Equal(t, "1", orig.Values[0].String())
	got, _ := updated.Column("a")
	assert.Equal(t, "99", got.Values[0].String())

	dropped := updated.DropRows(map[int]bool{1: true})
	assert.Equal(t, 2, dropped.RowCount())
	assert.Equal(t, 3, updated.RowCount())
}

func TestColumnFloats(t *testing.T) {
	col := NewColumn("x", TypeFloat, []Cell{NewFloat(1.5), Missing(), NewInteger(3), NewString("n/a")})
	values, rows := col.Floats()
	assert.Equal(t, []float64{1.5, 3}, values)
	assert.Equal(t, []int{0, 2}, rows)
	assert.Equal(t, 1, col.MissingCount())
}

func TestTypesRoundTrip(t *testing.T) {
	ds := MustNew(
		NewColumn("a", TypeString, []Cell{NewString("1")}),
		NewColumn("b", TypeString, []Cell{NewString("x")}),
	)
	typed := ds.WithTypes(TypeMap{"a": TypeInteger})
	assert.Equal(t, TypeMap{"a": TypeInteger, "b": TypeString}, typed.Types())
	assert.Equal(t, TypeString, ds.Columns[0].Type)
}

func TestWholeFloatKeepsKindThroughJSON(t *testing.T) {
	data, err := json.Marshal([]Cell{NewFloat(3), NewFloat(1e21)})
	require.NoError(t, err)
	assert.Equal(t, `[3.0,1e+21]`, string(data))

	var decoded []Cell
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, KindFloat, decoded[0].Kind())
	assert.Equal(t, KindFloat, decoded[1].Kind())
}

package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goeda/domain/dataset"
)

func TestCustomerGenerator_Shape(t *testing.T) {
	config := DefaultCustomerConfig()
	config.Rows = 50

	ds := NewCustomerGenerator(config).Generate()

	assert.Equal(t, []string{ColumnID, ColumnAge, ColumnIncome, ColumnSegment, ColumnSignup}, ds.Names())
	assert.Equal(t, 50, ds.RowCount())

	segment, err := ds.Column(ColumnSegment)
	require.NoError(t, err)
	for i, v := range segment.Values {
		s, ok := v.Str()
		require.True(t, ok, "row %d", i)
		assert.Contains(t, Segments, s)
	}

	signup, err := ds.Column(ColumnSignup)
	require.NoError(t, err)
	for _, v := range signup.Values {
		ts, ok := v.Time()
		require.True(t, ok)
		assert.False(t, ts.Before(config.StartDate))
		assert.False(t, ts.After(config.EndDate))
	}
}

func TestCustomerGenerator_Deterministic(t *testing.T) {
	a := Customers()
	b := Customers()
	assert.Equal(t, a, b)

	config := DefaultCustomerConfig()
	config.Seed = 7
	c := NewCustomerGenerator(config).Generate()
	assert.NotEqual(t, a, c)
}

func TestCustomerGenerator_MissingRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		none bool
	}{
		{name: "no missing", rate: 0, none: true},
		{name: "some missing", rate: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCustomerConfig()
			config.MissingRate = tt.rate

			ds := NewCustomerGenerator(config).Generate()
			age, err := ds.Column(ColumnAge)
			require.NoError(t, err)
			if tt.none {
				assert.Zero(t, age.MissingCount())
			} else {
				assert.Positive(t, age.MissingCount())
			}
		})
	}
}

func TestCustomerGenerator_IncomeUsesDecimalComma(t *testing.T) {
	config := DefaultCustomerConfig()
	config.MissingRate = 0

	income, err := NewCustomerGenerator(config).Generate().Column(ColumnIncome)
	require.NoError(t, err)
	for _, v := range income.Values {
		assert.Equal(t, dataset.KindString, v.Kind())
		s, _ := v.Str()
		assert.Contains(t, s, ",")
	}
}

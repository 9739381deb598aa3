// Package testkit builds deterministic datasets for tests and demos.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"goeda/domain/dataset"
)

// Column names produced by the customer generator
const (
	ColumnID      = "customer_id"
	ColumnAge     = "age"
	ColumnIncome  = "income"
	ColumnSegment = "segment"
	ColumnSignup  = "signup"
)

// Segments are the categorical labels of the segment column, in generation order
var Segments = []string{"bronze", "silver", "gold"}

// CustomerConfig configures the customer table generator
type CustomerConfig struct {
	Rows        int       `json:"rows"`
	MissingRate float64   `json:"missing_rate"`
	OutlierRate float64   `json:"outlier_rate"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seed        int64     `json:"seed"`
}

// DefaultCustomerConfig returns sensible defaults for customer table generation
func DefaultCustomerConfig() CustomerConfig {
	return CustomerConfig{
		Rows:        200,
		MissingRate: 0.05,
		OutlierRate: 0.02,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		Seed:        42,
	}
}

// CustomerGenerator produces raw customer tables shaped like a spreadsheet upload:
// numbers arrive as text with ',' decimals and blank cells are missing.
type CustomerGenerator struct {
	config CustomerConfig
	rng    *rand.Rand
}

// NewCustomerGenerator creates a generator; the same config always yields the same table
func NewCustomerGenerator(config CustomerConfig) *CustomerGenerator {
	return &CustomerGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the raw table
func (g *CustomerGenerator) Generate() dataset.Dataset {
	n := g.config.Rows
	ids := make([]dataset.Cell, n)
	ages := make([]dataset.Cell, n)
	incomes := make([]dataset.Cell, n)
	segments := make([]dataset.Cell, n)
	signups := make([]dataset.Cell, n)

	for i := 0; i < n; i++ {
		segment := g.rng.Intn(len(Segments))

		ids[i] = dataset.NewString(strconv.Itoa(i + 1))
		ages[i] = g.maybeMissing(strconv.Itoa(18 + g.rng.Intn(60)))
		incomes[i] = g.maybeMissing(decimalComma(g.income(segment)))
		segments[i] = dataset.NewString(Segments[segment])
		signups[i] = dataset.NewDatetime(g.randomTimeInRange(g.config.StartDate, g.config.EndDate))
	}

	return dataset.MustNew(
		dataset.NewColumn(ColumnID, dataset.TypeUnknown, ids),
		dataset.NewColumn(ColumnAge, dataset.TypeUnknown, ages),
		dataset.NewColumn(ColumnIncome, dataset.TypeUnknown, incomes),
		dataset.NewColumn(ColumnSegment, dataset.TypeUnknown, segments),
		dataset.NewColumn(ColumnSignup, dataset.TypeUnknown, signups),
	)
}

// income draws a segment-dependent income; a small share is inflated tenfold
func (g *CustomerGenerator) income(segment int) float64 {
	base := 30000 + float64(segment)*15000 + g.rng.NormFloat64()*4000
	if g.rng.Float64() < g.config.OutlierRate {
		base *= 10
	}
	return math.Round(math.Abs(base)*100) / 100
}

func (g *CustomerGenerator) maybeMissing(raw string) dataset.Cell {
	if g.rng.Float64() < g.config.MissingRate {
		return dataset.Missing()
	}
	return dataset.NewString(raw)
}

func (g *CustomerGenerator) randomTimeInRange(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(g.rng.Int63n(int64(span)))).Truncate(time.Second)
}

func decimalComma(f float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", f), ".", ",", 1)
}

// Customers returns the default raw customer table
func Customers() dataset.Dataset {
	return NewCustomerGenerator(DefaultCustomerConfig()).Generate()
}

package profiling

import (
	"sort"

	"goeda/domain/core"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal"

	"github.com/montanaflynn/stats"
)

// Profiler computes univariate descriptive statistics
type Profiler struct {
	logger *internal.Logger
}

// NewProfiler creates a profiler; a nil logger falls back to the default logger
func NewProfiler(logger *internal.Logger) *Profiler {
	return &Profiler{logger: logger.OrDefault().With("profiler")}
}

// Describe computes the statistics appropriate for the column's declared type.
// Numeric columns get the moment/range family on top of the counting family.
func (p *Profiler) Describe(col dataset.Column) (domainstats.Univariate, error) {
	result := p.count(col)

	switch col.Type {
	case dataset.TypeInteger, dataset.TypeFloat:
		return p.withNumeric(result, col)
	case dataset.TypeString, dataset.TypeCategorical, dataset.TypeDatetime:
		return result, nil
	case dataset.TypeUnknown:
		if col.IsNumeric() {
			return p.withNumeric(result, col)
		}
		return result, nil
	default:
		return domainstats.Univariate{}, &core.UnsupportedTypeError{
			Column: col.Name, Type: col.Type.String(), Operation: "describe",
		}
	}
}

// count builds the NA count, unique list, value counts, proportions and mode
func (p *Profiler) count(col dataset.Column) domainstats.Univariate {
	result := domainstats.Univariate{
		Column: col.Name,
		Type:   col.Type,
		Length: col.Len(),
	}

	type entry struct {
		value dataset.Cell
		count int
		first int
	}
	entries := make(map[string]*entry)
	order := make([]*entry, 0)
	present := 0

	for i, v := range col.Values {
		if v.IsMissing() {
			result.NACount++
			continue
		}
		present++
		key := v.String()
		e, ok := entries[key]
		if !ok {
			e = &entry{value: v, first: i}
			entries[key] = e
			order = append(order, e)
		}
		e.count++
	}

	result.Unique = make([]dataset.Cell, len(order))
	for i, e := range order {
		result.Unique[i] = e.value
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})
	result.ValueCounts = make([]domainstats.ValueCount, len(order))
	for i, e := range order {
		result.ValueCounts[i] = domainstats.ValueCount{
			Value:      e.value,
			Count:      e.count,
			Proportion: float64(e.count) / float64(present),
		}
	}

	if len(order) > 0 {
		top := order[0].count
		mode := domainstats.Mode{Count: top}
		for _, e := range order {
			if e.count != top {
				break
			}
			mode.Values = append(mode.Values, e.value)
		}
		sort.Slice(mode.Values, func(i, j int) bool {
			return dataset.Compare(mode.Values[i], mode.Values[j]) < 0
		})
		result.Mode = mode
	}

	p.logger.Debug("column %q: %d values, %d missing, %d distinct", col.Name, present, result.NACount, len(order))
	return result
}

// withNumeric adds the numeric summary. Infinite values are excluded from the moments.
func (p *Profiler) withNumeric(result domainstats.Univariate, col dataset.Column) (domainstats.Univariate, error) {
	raw, _ := col.Floats()
	values := finite(raw)
	if len(values) < len(raw) {
		p.logger.Warn("column %q: %d infinite values excluded from numeric summary", col.Name, len(raw)-len(values))
	}
	if len(values) == 0 {
		return result, nil
	}

	summary, err := Summarize(values)
	if err != nil {
		return domainstats.Univariate{}, err
	}
	result.Numeric = &summary
	return result, nil
}

// Summarize computes the numeric summary of a non-empty sample
func Summarize(values []float64) (domainstats.NumericSummary, error) {
	summary := domainstats.NumericSummary{Count: len(values)}
	var err error

	if summary.Mean, err = stats.Mean(values); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(values); err != nil {
		return summary, err
	}
	if summary.Min, err = stats.Min(values); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(values); err != nil {
		return summary, err
	}
	summary.Range = summary.Max - summary.Min

	if len(values) > 1 {
		if summary.Variance, err = stats.SampleVariance(values); err != nil {
			return summary, err
		}
		if summary.Std, err = stats.StandardDeviationSample(values); err != nil {
			return summary, err
		}
	}

	summary.Skewness = Skewness(values)
	if summary.Quantiles, err = Quartiles(values); err != nil {
		return summary, err
	}
	return summary, nil
}

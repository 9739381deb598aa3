package imputer

import (
	"sort"
	"strconv"
	"strings"

	"goeda/domain/core"
	"goeda/domain/dataset"
	"goeda/internal"

	"github.com/montanaflynn/stats"
)

// Strategy names a missing-value correction
type Strategy string

const (
	StrategyForwardFill  Strategy = "ffill"
	StrategyMostFrequent Strategy = "most_frequent"
	StrategyMean         Strategy = "mean"
	StrategyMedian       Strategy = "median"
	StrategyDelete       Strategy = "delete"
)

// AllStrategies lists every strategy in presentation order
var AllStrategies = []Strategy{StrategyForwardFill, StrategyMostFrequent, StrategyDelete, StrategyMean, StrategyMedian}

// ParseStrategy accepts strategy names, including "forward_fill" as an alias of "ffill"
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyForwardFill, "forward_fill":
		return StrategyForwardFill, nil
	case StrategyMostFrequent:
		return StrategyMostFrequent, nil
	case StrategyMean:
		return StrategyMean, nil
	case StrategyMedian:
		return StrategyMedian, nil
	case StrategyDelete:
		return StrategyDelete, nil
	}
	return "", core.NewUnknownMethodError("missing-value strategy", s)
}

// RequiresNumeric reports whether the strategy only applies to numeric columns
func (s Strategy) RequiresNumeric() bool {
	return s == StrategyMean || s == StrategyMedian
}

// StrategiesFor returns the strategies applicable to the column
func StrategiesFor(col dataset.Column) []Strategy {
	out := make([]Strategy, 0, len(AllStrategies))
	for _, s := range AllStrategies {
		if s.RequiresNumeric() && !col.IsNumeric() {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Correction is the result of correcting one column
type Correction struct {
	Column dataset.Column
	Filled int
	// Skipped is set when the strategy could not be applied and the column was returned unchanged
	Skipped string
}

// Imputer fills or removes missing values
type Imputer struct {
	logger *internal.Logger
}

// NewImputer creates an imputer; a nil logger falls back to the default logger
func NewImputer(logger *internal.Logger) *Imputer {
	return &Imputer{logger: logger.OrDefault().With("imputer")}
}

// Normalize returns a copy of the column in which cells equal to marker are Missing.
// An empty marker only keeps the built-in missing representation.
func Normalize(col dataset.Column, marker string) dataset.Column {
	out := col.Clone()
	if marker == "" {
		return out
	}
	markerNum, markerIsNum := parseMarker(marker)
	for i, v := range out.Values {
		if v.IsMissing() {
			continue
		}
		if v.String() == marker {
			out.Values[i] = dataset.Missing()
			continue
		}
		if s, ok := v.Str(); ok && s == marker {
			out.Values[i] = dataset.Missing()
			continue
		}
		if f, ok := v.Float(); ok && markerIsNum && f == markerNum {
			out.Values[i] = dataset.Missing()
		}
	}
	return out
}

func parseMarker(marker string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(marker), 64)
	return f, err == nil
}

// Correct applies a cell-substituting strategy to a single column.
// StrategyDelete changes the row count and is only available through DropMissing.
func (im *Imputer) Correct(col dataset.Column, strategy Strategy, marker string) (Correction, error) {
	normalized := Normalize(col, marker)

	switch strategy {
	case StrategyForwardFill:
		return im.forwardFill(normalized), nil
	case StrategyMostFrequent:
		return im.mostFrequent(normalized), nil
	case StrategyMean, StrategyMedian:
		return im.central(col, normalized, strategy), nil
	case StrategyDelete:
		return Correction{}, &core.UnsupportedTypeError{
			Column: col.Name, Type: col.Type.String(), Operation: "row deletion on a single column",
		}
	}
	return Correction{}, core.NewUnknownMethodError("missing-value strategy", string(strategy))
}

func (im *Imputer) forwardFill(col dataset.Column) Correction {
	filled := 0
	var last dataset.Cell
	for i, v := range col.Values {
		if !v.IsMissing() {
			last = v
			continue
		}
		if !last.IsMissing() {
			col.Values[i] = last
			filled++
		}
	}
	return Correction{Column: col, Filled: filled}
}

func (im *Imputer) mostFrequent(col dataset.Column) Correction {
	value, ok := MostFrequent(col.Values)
	if !ok {
		return Correction{Column: col, Skipped: "column has no values"}
	}
	filled := 0
	for i, v := range col.Values {
		if v.IsMissing() {
			col.Values[i] = value
			filled++
		}
	}
	return Correction{Column: col, Filled: filled}
}

// MostFrequent returns the most common non-missing cell; ties go to the smallest in value order
func MostFrequent(values []dataset.Cell) (dataset.Cell, bool) {
	counts := make(map[string]int)
	representative := make(map[string]dataset.Cell)
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		key := v.String()
		counts[key]++
		if _, seen := representative[key]; !seen {
			representative[key] = v
		}
	}
	if len(counts) == 0 {
		return dataset.Missing(), false
	}

	candidates := make([]dataset.Cell, 0, len(representative))
	for _, v := range representative {
		candidates = append(candidates, v)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := counts[candidates[i].String()], counts[candidates[j].String()]
		if ci != cj {
			return ci > cj
		}
		return dataset.Compare(candidates[i], candidates[j]) < 0
	})
	return candidates[0], true
}

// central fills with the mean or median. Non-numeric columns are returned unchanged.
func (im *Imputer) central(original, col dataset.Column, strategy Strategy) Correction {
	if !col.IsNumeric() {
		im.logger.Warn("%s imputation skipped for non-numeric column %q", strategy, col.Name)
		return Correction{Column: original.Clone(), Skipped: string(strategy) + " requires a numeric column"}
	}

	values, _ := col.Floats()
	var (
		fill float64
		err  error
	)
	if strategy == StrategyMean {
		fill, err = stats.Mean(values)
	} else {
		fill, err = stats.Median(values)
	}
	if err != nil {
		im.logger.Warn("%s imputation skipped for column %q: %v", strategy, col.Name, err)
		return Correction{Column: original.Clone(), Skipped: err.Error()}
	}

	replacements := make(map[int]float64)
	for i, v := range col.Values {
		if v.IsMissing() {
			replacements[i] = fill
		}
	}
	return Correction{Column: col.WithNumbers(replacements), Filled: len(replacements)}
}

// DropMissing removes every row in which the named column is missing (after marker normalisation)
func (im *Imputer) DropMissing(ds dataset.Dataset, column, marker string) (dataset.Dataset, int, error) {
	col, err := ds.Column(column)
	if err != nil {
		return dataset.Dataset{}, 0, err
	}
	normalized := Normalize(col, marker)

	rows := make(map[int]bool)
	for i, v := range normalized.Values {
		if v.IsMissing() {
			rows[i] = true
		}
	}
	im.logger.Debug("dropping %d rows missing in column %q", len(rows), column)
	return ds.DropRows(rows), len(rows), nil
}

// CorrectDataset applies the strategy to each named column in order.
// Columns are processed independently: a failing column is reported in its
// outcome and leaves the dataset as it was before that column.
func (im *Imputer) CorrectDataset(ds dataset.Dataset, columns []string, strategy Strategy, marker string) (dataset.Dataset, []dataset.ColumnOutcome) {
	current := ds.Clone()
	outcomes := make([]dataset.ColumnOutcome, 0, len(columns))

	for _, name := range columns {
		outcome := dataset.ColumnOutcome{Column: name}

		if strategy == StrategyDelete {
			next, removed, err := im.DropMissing(current, name, marker)
			if err != nil {
				outcome.Err, outcome.Message = err, err.Error()
			} else {
				current = next
				outcome.Applied, outcome.Changed = true, removed
			}
			outcomes = append(outcomes, outcome)
			continue
		}

		col, err := current.Column(name)
		if err == nil {
			var correction Correction
			correction, err = im.Correct(col, strategy, marker)
			if err == nil {
				current, err = current.WithColumn(correction.Column)
				outcome.Applied = correction.Skipped == ""
				outcome.Changed = correction.Filled
				outcome.Message = correction.Skipped
			}
		}
		if err != nil {
			im.logger.Warn("missing-value correction failed for column %q: %v", name, err)
			outcome.Err, outcome.Message = err, err.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	return current, outcomes
}

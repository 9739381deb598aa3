package stats

import (
	"goeda/domain/dataset"
)

// ============================================================================
// OUTLIERS
// ============================================================================

// OutlierReport lists flagged rows and the bounds used to flag them.
// LowerBound/UpperBound are in the detection method's space (z-space for zscore);
// ValueLower/ValueUpper are the same bounds expressed in the column's units.
type OutlierReport struct {
	Column     string  `json:"column"`
	Method     string  `json:"method"`
	Indices    []int   `json:"indices"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	ValueLower float64 `json:"value_lower"`
	ValueUpper float64 `json:"value_upper"`
}

// Count returns the number of flagged rows
func (r OutlierReport) Count() int {
	return len(r.Indices)
}

// Flagged returns the flagged rows as a set
func (r OutlierReport) Flagged() map[int]bool {
	set := make(map[int]bool, len(r.Indices))
	for _, i := range r.Indices {
		set[i] = true
	}
	return set
}

// ============================================================================
// UNIVARIATE
// ============================================================================

// ValueCount is one entry of a value-count table
type ValueCount struct {
	Value      dataset.Cell `json:"value"`
	Count      int          `json:"count"`
	Proportion float64      `json:"proportion"`
}

// Mode holds every most-frequent value and their shared count
type Mode struct {
	Values []dataset.Cell `json:"values"`
	Count  int            `json:"count"`
}

// Quantiles holds the quartile triple
type Quantiles struct {
	Q25 float64 `json:"0.25"`
	Q50 float64 `json:"0.5"`
	Q75 float64 `json:"0.75"`
}

// NumericSummary is the moment/range family computed for numeric columns.
// Std and Variance use the sample (n-1) convention.
type NumericSummary struct {
	Count     int       `json:"count"`
	Mean      float64   `json:"mean"`
	Median    float64   `json:"median"`
	Std       float64   `json:"std"`
	Variance  float64   `json:"variance"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Range     float64   `json:"range"`
	Skewness  float64   `json:"skewness"`
	Quantiles Quantiles `json:"quantiles"`
}

// Univariate describes a single column
type Univariate struct {
	Column      string             `json:"column"`
	Type        dataset.ColumnType `json:"type"`
	Length      int                `json:"length"`
	NACount     int                `json:"na_count"`
	Unique      []dataset.Cell     `json:"unique"`
	ValueCounts []ValueCount       `json:"value_counts"`
	Mode        Mode               `json:"mode"`
	Numeric     *NumericSummary    `json:"numeric,omitempty"`
}

// CountedTotal returns the sum of value counts plus the NA count
func (u Univariate) CountedTotal() int {
	total := u.NACount
	for _, vc := range u.ValueCounts {
		total += vc.Count
	}
	return total
}

// ============================================================================
// BIVARIATE
// ============================================================================

// AnalysisKind tags which branch of the bivariate engine produced a result
type AnalysisKind string

const (
	AnalysisNumeric     AnalysisKind = "numeric"
	AnalysisCategorical AnalysisKind = "categorical"
	AnalysisUnavailable AnalysisKind = "unavailable"
)

// Interval is a closed confidence interval
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Correlation holds the numeric x numeric association measures
type Correlation struct {
	Pearson      float64 `json:"pearson"`
	PearsonP     float64 `json:"pearson_p"`
	Spearman     float64 `json:"spearman"`
	SpearmanP    float64 `json:"spearman_p"`
	RSquared     float64 `json:"r_squared"`
	CorrelationR float64 `json:"correlation_coefficient"`
	Covariance   float64 `json:"covariance"`
	SampleSize   int     `json:"n"`
	DroppedPairs int     `json:"dropped_pairs"`
}

// Regression is a simple OLS fit of y on x
type Regression struct {
	Slope           float64  `json:"slope"`
	Intercept       float64  `json:"intercept"`
	SlopeCI         Interval `json:"slope_ci"`
	InterceptCI     Interval `json:"intercept_ci"`
	ConfidenceLevel float64  `json:"confidence_level"`
	RSquared        float64  `json:"r_squared"`
	ResidualStdErr  float64  `json:"residual_std_error"`
	DF              int      `json:"df"`
}

// TableRow is one term of an ANOVA or ANCOVA table. Residual rows carry no F or p-value.
type TableRow struct {
	Term   string   `json:"term"`
	DF     float64  `json:"df"`
	SumSq  float64  `json:"sum_sq"`
	MeanSq float64  `json:"mean_sq"`
	F      *float64 `json:"F,omitempty"`
	PValue *float64 `json:"PR(>F),omitempty"`
}

// VarianceTable is an ANOVA or ANCOVA table
type VarianceTable struct {
	Model string     `json:"model"`
	Rows  []TableRow `json:"rows"`
}

// Term returns the row for the named term
func (t VarianceTable) Term(name string) (TableRow, bool) {
	for _, r := range t.Rows {
		if r.Term == name {
			return r, true
		}
	}
	return TableRow{}, false
}

// GroupedRow is one row of the combined regression/clustering table
type GroupedRow struct {
	Row        int     `json:"index"`
	Label      string  `json:"label"`
	Code       float64 `json:"code"`
	Value      float64 `json:"value"`
	Prediction float64 `json:"prediction"`
	Cluster    int     `json:"cluster"`
}

// Grouping holds the categorical x numeric regression predictions and clusters
type Grouping struct {
	Labels     []string     `json:"labels"`
	Regression Regression   `json:"regression"`
	Centroids  [][]float64  `json:"centroids"`
	Iterations int          `json:"iterations"`
	Rows       []GroupedRow `json:"rows"`
}

// Bivariate is the result of analysing a column pair
type Bivariate struct {
	X           string         `json:"x"`
	Y           string         `json:"y"`
	Kind        AnalysisKind   `json:"kind"`
	Reason      string         `json:"reason,omitempty"`
	Swapped     bool           `json:"swapped,omitempty"`
	Correlation *Correlation   `json:"correlation,omitempty"`
	Regression  *Regression    `json:"regression,omitempty"`
	ANOVA       *VarianceTable `json:"anova,omitempty"`
	ANCOVA      *VarianceTable `json:"ancova,omitempty"`
	Grouping    *Grouping      `json:"grouping,omitempty"`
}

// Unavailable builds the sentinel result for pairs with no applicable analysis
func Unavailable(x, y, reason string) Bivariate {
	return Bivariate{X: x, Y: y, Kind: AnalysisUnavailable, Reason: reason}
}

// Available reports whether any analysis was computed
func (b Bivariate) Available() bool {
	return b.Kind != AnalysisUnavailable
}

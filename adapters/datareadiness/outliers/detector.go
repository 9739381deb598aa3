package outliers

import (
	"math"
	"strings"

	"goeda/domain/core"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal"
	"goeda/internal/profiling"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DetectMethod names an outlier detection rule
type DetectMethod string

const (
	DetectZScore DetectMethod = "zscore"
	DetectIQR    DetectMethod = "iqr"
)

// ParseDetectMethod validates a detection method name
func ParseDetectMethod(s string) (DetectMethod, error) {
	switch m := DetectMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case DetectZScore, DetectIQR:
		return m, nil
	}
	return "", core.NewUnknownMethodError("outlier detection", s)
}

// Options tunes detection and correction
type Options struct {
	ZThreshold    float64
	IQRMultiplier float64
	// ReplacementIncludesOutliers selects whether mean/median replacement values are
	// computed over every value (true) or only over the values that were not flagged.
	ReplacementIncludesOutliers bool
}

// DefaultOptions returns the conventional thresholds: |z| > 3 and 1.5 IQR fences
func DefaultOptions() Options {
	return Options{ZThreshold: 3, IQRMultiplier: 1.5, ReplacementIncludesOutliers: true}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ZThreshold <= 0 {
		o.ZThreshold = d.ZThreshold
	}
	if o.IQRMultiplier <= 0 {
		o.IQRMultiplier = d.IQRMultiplier
	}
	return o
}

// Detector flags outlying rows of numeric columns
type Detector struct {
	opts   Options
	logger *internal.Logger
}

// NewDetector creates a detector; zero thresholds fall back to the defaults
func NewDetector(opts Options, logger *internal.Logger) *Detector {
	return &Detector{opts: opts.normalized(), logger: logger.OrDefault().With("outliers")}
}

// Detect flags rows of a numeric column. Missing and infinite cells are never flagged.
// The same column always yields the same report.
func (d *Detector) Detect(col dataset.Column, method DetectMethod) (domainstats.OutlierReport, error) {
	if !col.IsNumeric() {
		return domainstats.OutlierReport{}, &core.UnsupportedTypeError{
			Column: col.Name, Type: col.Type.String(), Operation: "outlier detection",
		}
	}

	values, rows := finiteValues(col)
	report := domainstats.OutlierReport{Column: col.Name, Method: string(method), Indices: []int{}}

	switch method {
	case DetectZScore:
		d.zscore(&report, values, rows)
	case DetectIQR:
		if len(values) > 0 {
			if err := d.iqr(&report, values, rows); err != nil {
				return domainstats.OutlierReport{}, err
			}
		}
	default:
		return domainstats.OutlierReport{}, core.NewUnknownMethodError("outlier detection", string(method))
	}

	d.logger.Debug("%s on %q flagged %d of %d values", method, col.Name, report.Count(), len(values))
	return report, nil
}

// zscore standardises with the population standard deviation and flags |z| above the threshold.
// Bounds are reported in z-space; the value-space bounds are mean ± threshold·σ.
func (d *Detector) zscore(report *domainstats.OutlierReport, values []float64, rows []int) {
	threshold := d.opts.ZThreshold
	report.LowerBound, report.UpperBound = -threshold, threshold
	if len(values) == 0 {
		return
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	report.ValueLower, report.ValueUpper = mean-threshold*std, mean+threshold*std
	if std == 0 {
		return
	}

	z := make([]float64, len(values))
	copy(z, values)
	floats.AddConst(-mean, z)
	floats.Scale(1/std, z)

	for i, score := range z {
		if math.Abs(score) > threshold {
			report.Indices = append(report.Indices, rows[i])
		}
	}
}

// iqr flags values strictly outside [Q1 - k·IQR, Q3 + k·IQR]
func (d *Detector) iqr(report *domainstats.OutlierReport, values []float64, rows []int) error {
	q, err := profiling.Quartiles(values)
	if err != nil {
		return err
	}
	spread := q.Q75 - q.Q25
	lower := q.Q25 - d.opts.IQRMultiplier*spread
	upper := q.Q75 + d.opts.IQRMultiplier*spread

	report.LowerBound, report.UpperBound = lower, upper
	report.ValueLower, report.ValueUpper = lower, upper

	for i, v := range values {
		if v < lower || v > upper {
			report.Indices = append(report.Indices, rows[i])
		}
	}
	return nil
}

func finiteValues(col dataset.Column) ([]float64, []int) {
	raw, rawRows := col.Floats()
	values := make([]float64, 0, len(raw))
	rows := make([]int, 0, len(raw))
	for i, v := range raw {
		if math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
		rows = append(rows, rawRows[i])
	}
	return values, rows
}

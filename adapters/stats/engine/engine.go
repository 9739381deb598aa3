package engine

import (
	"math"

	"goeda/domain/core"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal"
)

// Options configures the bivariate engine
type Options struct {
	ConfidenceLevel float64
	Clusters        int
	MaxIterations   int
}

// DefaultOptions returns 95% intervals and a two-group clustering
func DefaultOptions() Options {
	return Options{ConfidenceLevel: 0.95, Clusters: 2, MaxIterations: 100}
}

// StatsEngine dispatches a column pair to the analysis its types support
type StatsEngine struct {
	opts   Options
	logger *internal.Logger
}

// NewStatsEngine creates a new statistical engine; zero options fall back to the defaults
func NewStatsEngine(opts Options, logger *internal.Logger) *StatsEngine {
	d := DefaultOptions()
	if opts.ConfidenceLevel <= 0 || opts.ConfidenceLevel >= 1 {
		opts.ConfidenceLevel = d.ConfidenceLevel
	}
	if opts.Clusters < 1 {
		opts.Clusters = d.Clusters
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = d.MaxIterations
	}
	return &StatsEngine{opts: opts, logger: logger.OrDefault().With("stats")}
}

// role is the part a column can play in a bivariate analysis
type role int

const (
	roleNone role = iota
	roleNumeric
	roleCategorical
)

func roleOf(col dataset.Column) role {
	switch col.Type {
	case dataset.TypeInteger, dataset.TypeFloat:
		return roleNumeric
	case dataset.TypeString, dataset.TypeCategorical:
		return roleCategorical
	case dataset.TypeDatetime:
		return roleNone
	case dataset.TypeUnknown:
		if col.IsNumeric() {
			return roleNumeric
		}
	}
	return roleNone
}

// AnalyzeColumns looks the named columns up and analyses them. An empty x or y
// name means nothing was selected and yields an unavailable result. The
// covariate is optional and only used by the categorical branch.
func (e *StatsEngine) AnalyzeColumns(ds dataset.Dataset, x, y, covariate string) (domainstats.Bivariate, error) {
	if x == "" || y == "" {
		return domainstats.Unavailable(x, y, "two columns must be selected"), nil
	}
	xc, err := ds.Column(x)
	if err != nil {
		return domainstats.Bivariate{}, err
	}
	yc, err := ds.Column(y)
	if err != nil {
		return domainstats.Bivariate{}, err
	}

	var cov *dataset.Column
	if covariate != "" {
		c, err := ds.Column(covariate)
		if err != nil {
			return domainstats.Bivariate{}, err
		}
		if roleOf(c) != roleNumeric {
			return domainstats.Bivariate{}, unsupported(c, "ANCOVA covariate")
		}
		cov = &c
	}
	return e.Analyze(xc, yc, cov)
}

// Analyze picks the analysis from the pair's declared types:
// numeric × numeric runs correlation and regression, categorical × numeric
// runs ANOVA/ANCOVA with regression predictions and clustering, and
// numeric × categorical is analysed with the roles swapped. Every other
// pairing returns an unavailable result rather than an error.
func (e *StatsEngine) Analyze(x, y dataset.Column, covariate *dataset.Column) (domainstats.Bivariate, error) {
	switch rx, ry := roleOf(x), roleOf(y); {
	case rx == roleNumeric && ry == roleNumeric:
		return e.analyzeNumeric(x, y)
	case rx == roleCategorical && ry == roleNumeric:
		return e.analyzeCategorical(x, y, covariate)
	case rx == roleNumeric && ry == roleCategorical:
		result, err := e.analyzeCategorical(y, x, covariate)
		if err != nil {
			return domainstats.Bivariate{}, err
		}
		result.Swapped = true
		return result, nil
	}

	e.logger.Debug("no analysis for %s (%s) x %s (%s)", x.Name, x.Type, y.Name, y.Type)
	return domainstats.Unavailable(x.Name, y.Name,
		"no analysis applies to a "+x.Type.String()+" column paired with a "+y.Type.String()+" column"), nil
}

// numericValues maps each cell to its numeric value, NaN when it has none
func numericValues(col dataset.Column) []float64 {
	out := make([]float64, col.Len())
	for i, v := range col.Values {
		f, ok := v.Float()
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}

func unsupported(col dataset.Column, operation string) error {
	return &core.UnsupportedTypeError{Column: col.Name, Type: col.Type.String(), Operation: operation}
}

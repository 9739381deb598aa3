package app

import (
	"context"

	"goeda/adapters/datareadiness/coercer"
	"goeda/adapters/datareadiness/imputer"
	"goeda/adapters/datareadiness/outliers"
	"goeda/adapters/stats/engine"
	"goeda/domain/core"
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal"
	"goeda/internal/config"
	"goeda/internal/profiling"

	"golang.org/x/sync/errgroup"
)

// Service exposes the engine as stateless operations over caller-owned datasets.
// No method mutates its input dataset.
type Service struct {
	coercer  *coercer.TypeCoercer
	imputer  *imputer.Imputer
	outliers *outliers.Handler
	profiler *profiling.Profiler
	stats    *engine.StatsEngine
	logger   *internal.Logger
}

// NewService wires the engine components from configuration; a nil config uses the defaults
func NewService(cfg *config.Config, logger *internal.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logger.OrDefault()

	outlierOpts := outliers.Options{
		ZThreshold:                  cfg.Engine.ZThreshold,
		IQRMultiplier:               cfg.Engine.IQRMultiplier,
		ReplacementIncludesOutliers: cfg.Engine.ReplacementIncludesOutliers,
	}
	statsOpts := engine.Options{
		ConfidenceLevel: cfg.Engine.ConfidenceLevel,
		Clusters:        cfg.Engine.Clusters,
		MaxIterations:   cfg.Engine.MaxIterations,
	}

	return &Service{
		coercer:  coercer.NewTypeCoercer(logger),
		imputer:  imputer.NewImputer(logger),
		outliers: outliers.NewHandler(outlierOpts, logger),
		profiler: profiling.NewProfiler(logger),
		stats:    engine.NewStatsEngine(statsOpts, logger),
		logger:   logger.With("service"),
	}
}

// Ingest classifies every column and converts the numeric ones
func (s *Service) Ingest(ds dataset.Dataset) (dataset.Dataset, dataset.TypeMap) {
	return s.coercer.Infer(ds)
}

// ClassifyTypes infers a ColumnType for every column
func (s *Service) ClassifyTypes(ds dataset.Dataset) dataset.TypeMap {
	return s.coercer.Classifier().ClassifyTypes(ds)
}

// ConvertColumn returns the named column converted to target.
// The caller decides whether to store it and update its TypeMap.
func (s *Service) ConvertColumn(ds dataset.Dataset, name string, target dataset.ColumnType, policy coercer.Policy) (dataset.Column, error) {
	col, err := ds.Column(name)
	if err != nil {
		return dataset.Column{}, err
	}
	return s.coercer.Converter().Convert(col, target, policy)
}

// CorrectMissing applies a missing-value strategy to each named column
func (s *Service) CorrectMissing(ds dataset.Dataset, columns []string, strategy imputer.Strategy, marker string) (dataset.Dataset, []dataset.ColumnOutcome) {
	out, outcomes := s.imputer.CorrectDataset(ds, columns, strategy, marker)
	s.logger.Debug("missing-value %s over %d columns", strategy, len(columns))
	return out, outcomes
}

// MissingStrategies lists the strategies offered for a column: mean and median only for numeric columns
func (s *Service) MissingStrategies(ds dataset.Dataset, name string) ([]imputer.Strategy, error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	return imputer.StrategiesFor(col), nil
}

// DetectOutliers flags outlying rows of a numeric column
func (s *Service) DetectOutliers(ds dataset.Dataset, name string, method outliers.DetectMethod) (domainstats.OutlierReport, error) {
	col, err := ds.Column(name)
	if err != nil {
		return domainstats.OutlierReport{}, err
	}
	return s.outliers.Detector().Detect(col, method)
}

// FixOutliers returns the named column with the report's rows corrected
func (s *Service) FixOutliers(ds dataset.Dataset, name string, report domainstats.OutlierReport, method outliers.FixMethod) (dataset.Column, error) {
	col, err := ds.Column(name)
	if err != nil {
		return dataset.Column{}, err
	}
	return s.outliers.Corrector().Fix(col, report, method)
}

// HandleOutliers detects and corrects outliers in each named column
func (s *Service) HandleOutliers(ds dataset.Dataset, columns []string, detect outliers.DetectMethod, fix outliers.FixMethod) (dataset.Dataset, []dataset.ColumnOutcome, []domainstats.OutlierReport) {
	return s.outliers.Handle(ds, columns, detect, fix)
}

// Describe1D computes the univariate statistics of a column
func (s *Service) Describe1D(ds dataset.Dataset, name string) (domainstats.Univariate, error) {
	col, err := ds.Column(name)
	if err != nil {
		return domainstats.Univariate{}, err
	}
	return s.profiler.Describe(col)
}

// DescribeMany describes several columns concurrently. Results keep the order of
// names; the first failure cancels the rest. An empty list describes every column.
func (s *Service) DescribeMany(ctx context.Context, ds dataset.Dataset, names []string) ([]domainstats.Univariate, error) {
	if len(names) == 0 {
		names = ds.Names()
	}
	for _, name := range names {
		if ds.Index(name) < 0 {
			return nil, core.NewColumnNotFoundError(name)
		}
	}

	results := make([]domainstats.Univariate, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.Describe1D(ds, name)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Analyze2D runs the bivariate analysis for a column pair; covariate may be empty
func (s *Service) Analyze2D(ds dataset.Dataset, x, y, covariate string) (domainstats.Bivariate, error) {
	return s.stats.AnalyzeColumns(ds, x, y, covariate)
}

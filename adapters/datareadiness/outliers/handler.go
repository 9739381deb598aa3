package outliers

import (
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
	"goeda/internal"
)

// Handler runs detection followed by correction over several columns
type Handler struct {
	detector  *Detector
	corrector *Corrector
	logger    *internal.Logger
}

// NewHandler creates a handler sharing one set of options
func NewHandler(opts Options, logger *internal.Logger) *Handler {
	return &Handler{
		detector:  NewDetector(opts, logger),
		corrector: NewCorrector(opts, logger),
		logger:    logger.OrDefault().With("outliers"),
	}
}

// Detector returns the handler's detector
func (h *Handler) Detector() *Detector {
	return h.detector
}

// Corrector returns the handler's corrector
func (h *Handler) Corrector() *Corrector {
	return h.corrector
}

// Handle detects and corrects outliers column by column, in order.
// A column that fails keeps its previous values; the other columns are unaffected.
func (h *Handler) Handle(ds dataset.Dataset, columns []string, detect DetectMethod, fix FixMethod) (dataset.Dataset, []dataset.ColumnOutcome, []domainstats.OutlierReport) {
	current := ds.Clone()
	outcomes := make([]dataset.ColumnOutcome, 0, len(columns))
	reports := make([]domainstats.OutlierReport, 0, len(columns))

	for _, name := range columns {
		outcome := dataset.ColumnOutcome{Column: name}
		next, report, err := h.handleColumn(current, name, detect, fix)
		if err != nil {
			h.logger.Warn("outlier handling failed for column %q: %v", name, err)
			outcome.Err, outcome.Message = err, err.Error()
		} else {
			current = next
			outcome.Applied, outcome.Changed = true, report.Count()
			reports = append(reports, report)
		}
		outcomes = append(outcomes, outcome)
	}
	return current, outcomes, reports
}

func (h *Handler) handleColumn(ds dataset.Dataset, name string, detect DetectMethod, fix FixMethod) (dataset.Dataset, domainstats.OutlierReport, error) {
	col, err := ds.Column(name)
	if err != nil {
		return dataset.Dataset{}, domainstats.OutlierReport{}, err
	}
	report, err := h.detector.Detect(col, detect)
	if err != nil {
		return dataset.Dataset{}, domainstats.OutlierReport{}, err
	}
	fixed, err := h.corrector.Fix(col, report, fix)
	if err != nil {
		return dataset.Dataset{}, domainstats.OutlierReport{}, err
	}
	next, err := ds.WithColumn(fixed)
	return next, report, err
}

package api

import (
	"fmt"
	"net/http"

	"goeda/adapters/datareadiness/coercer"
	"goeda/adapters/datareadiness/imputer"
	"goeda/adapters/datareadiness/outliers"
	apperrors "goeda/internal/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req DatasetRequest
	if !s.decode(w, r, &req) {
		return
	}
	typed, types := s.service.Ingest(req.Dataset)
	s.writeJSON(w, http.StatusOK, IngestResponse{Dataset: typed, Types: types})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req DatasetRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, ClassifyResponse{Types: s.service.ClassifyTypes(req.Dataset)})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !s.decode(w, r, &req) {
		return
	}
	policy, err := coercer.ParsePolicy(req.Policy)
	if err != nil {
		s.writeError(w, err)
		return
	}
	col, err := s.service.ConvertColumn(req.Dataset, req.Column, req.Target, policy)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ConvertResponse{Column: col})
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	var req MissingRequest
	if !s.decode(w, r, &req) {
		return
	}
	strategy, err := imputer.ParseStrategy(req.Strategy)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ds, outcomes := s.service.CorrectMissing(req.Dataset, req.Columns, strategy, req.Marker)
	s.writeJSON(w, http.StatusOK, BatchResponse{Dataset: ds, Outcomes: outcomes})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	var req StrategiesRequest
	if !s.decode(w, r, &req) {
		return
	}
	strategies, err := s.service.MissingStrategies(req.Dataset, req.Column)
	if err != nil {
		s.writeError(w, err)
		return
	}
	names := make([]string, len(strategies))
	for i, st := range strategies {
		names[i] = string(st)
	}
	s.writeJSON(w, http.StatusOK, StrategiesResponse{Column: req.Column, Strategies: names})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if !s.decode(w, r, &req) {
		return
	}
	method, err := outliers.ParseDetectMethod(req.Method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	report, err := s.service.DetectOutliers(req.Dataset, req.Column, method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var req FixRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Report.Column != "" && req.Report.Column != req.Column {
		s.writeError(w, apperrors.ValidationError(
			fmt.Sprintf("report was computed for column %q, not %q", req.Report.Column, req.Column)))
		return
	}
	method, err := outliers.ParseFixMethod(req.Method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	col, err := s.service.FixOutliers(req.Dataset, req.Column, req.Report, method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ConvertResponse{Column: col})
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	var req OutliersRequest
	if !s.decode(w, r, &req) {
		return
	}
	detect, err := outliers.ParseDetectMethod(req.Detect)
	if err != nil {
		s.writeError(w, err)
		return
	}
	fix, err := outliers.ParseFixMethod(req.Fix)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ds, outcomes, reports := s.service.HandleOutliers(req.Dataset, req.Columns, detect, fix)
	s.writeJSON(w, http.StatusOK, BatchResponse{Dataset: ds, Outcomes: outcomes, Reports: reports})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	var req DescribeRequest
	if !s.decode(w, r, &req) {
		return
	}
	results, err := s.service.DescribeMany(r.Context(), req.Dataset, req.Columns)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DescribeResponse{Results: results})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.service.Analyze2D(req.Dataset, req.X, req.Y, req.Covariate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

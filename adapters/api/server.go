// Package api serves the engine as a stateless JSON facade over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goeda/app"
	"goeda/domain/dataset"
	"goeda/internal"
	apperrors "goeda/internal/errors"
)

// maxBodyBytes bounds a request body, dataset included
const maxBodyBytes = 64 << 20

// Server routes HTTP requests to the engine service
type Server struct {
	router  *chi.Mux
	service *app.Service
	logger  *internal.Logger
}

// NewServer creates a server with its middleware and routes installed
func NewServer(service *app.Service, logger *internal.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger.OrDefault().With("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, apperrors.NotFound("route "+r.URL.Path))
	})
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/ingest", s.handleIngest)
		r.Post("/classify", s.handleClassify)
		r.Post("/convert", s.handleConvert)

		r.Post("/missing", s.handleMissing)
		r.Post("/missing/strategies", s.handleStrategies)

		r.Post("/outliers", s.handleOutliers)
		r.Post("/outliers/detect", s.handleDetect)
		r.Post("/outliers/fix", s.handleFix)

		r.Post("/describe", s.handleDescribe)
		r.Post("/analyze", s.handleAnalyze)
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until the server fails
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, apperrors.WithCode(apperrors.CodeInvalidInput, apperrors.Wrap(err, "malformed request body")))
		return false
	}
	if carrier, ok := dst.(datasetCarrier); ok {
		if _, err := dataset.New(carrier.payload().Columns...); err != nil {
			s.writeError(w, apperrors.Wrap(err, "invalid dataset"))
			return false
		}
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response: %v", err)
	}
}

// writeError maps err to a status. Internal failures are logged and
// answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
		err = apperrors.InternalError("internal error")
		code = apperrors.CodeInternalError
	} else {
		s.logger.Debug("request rejected (%s): %v", code, err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(code string) int {
	switch code {
	case apperrors.CodeConversion, apperrors.CodeUnsupportedType:
		return http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeValidationError:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

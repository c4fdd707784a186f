// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	service "github.com/okian/sportgrade/internal/app"
	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. *service.Service implements it.
type Dependencies interface {
	Evaluate(ctx context.Context, m model.Measurement) (model.Record, error)
	EvaluateBatch(ctx context.Context, ms []model.Measurement) ([]model.Record, []error)
	Submit(ctx context.Context, m model.Measurement) (service.Ack, error)

	Result(ctx context.Context, id uuid.UUID) (model.Record, error)
	ResultByMeasurement(ctx context.Context, measurementID string) (model.Record, error)
	ResultsBySubject(ctx context.Context, subjectID string) []model.Record

	NextGrade(ctx context.Context, keyID string, points float64) (service.NextGrade, error)
	OverallLevel(ctx context.Context, recordIDs []uuid.UUID) (service.Overall, error)
	WeakestLevel(ctx context.Context, levels []string) (service.Overall, error)
	SubjectLevel(ctx context.Context, subjectID string) (service.Overall, error)

	ReloadCatalog(ctx context.Context, path string) error
	StatsProvider
}

// Options tune request handling.
type Options struct {
	// MaxBatchSize caps POST /evaluate/batch.
	MaxBatchSize int
	// CatalogPath is re-read by POST /catalog/reload. Empty disables reloads.
	CatalogPath string
	Logger      logger.Logger
}

// Server wires HTTP routes for the grading API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	evaluateHandler     *EvaluateHandler
	measurementsHandler *MeasurementsHandler
	resultsHandler      *ResultsHandler
	levelsHandler       *LevelsHandler
	catalogHandler      *CatalogHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts Options) *Server {
	if opts.MaxBatchSize < 1 {
		opts.MaxBatchSize = 500
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	log := opts.Logger.Named("api")
	return &Server{
		healthHandler:       NewHealthHandler(deps),
		statsHandler:        NewStatsHandler(deps),
		evaluateHandler:     NewEvaluateHandler(deps, opts.MaxBatchSize),
		measurementsHandler: NewMeasurementsHandler(deps),
		resultsHandler:      NewResultsHandler(deps),
		levelsHandler:       NewLevelsHandler(deps),
		catalogHandler:      NewCatalogHandler(deps, opts.CatalogPath, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("POST /evaluate/batch", MetricsMiddleware(s.evaluateHandler.HandleBatch, "evaluate_batch"))
	mux.HandleFunc("POST /measurements", MetricsMiddleware(s.measurementsHandler.HandlePostMeasurement, "measurements"))

	mux.HandleFunc("GET /results/{id}", MetricsMiddleware(s.resultsHandler.HandleGetResult, "result"))
	mux.HandleFunc("GET /measurements/{id}/result", MetricsMiddleware(s.resultsHandler.HandleGetByMeasurement, "measurement_result"))
	mux.HandleFunc("GET /subjects/{id}/results", MetricsMiddleware(s.resultsHandler.HandleGetBySubject, "subject_results"))

	mux.HandleFunc("POST /grading-keys/{id}/next-grade", MetricsMiddleware(s.levelsHandler.HandleNextGrade, "next_grade"))
	mux.HandleFunc("POST /sportabzeichen/overall", MetricsMiddleware(s.levelsHandler.HandleOverall, "sportabzeichen_overall"))
	mux.HandleFunc("GET /subjects/{id}/sportabzeichen", MetricsMiddleware(s.levelsHandler.HandleSubjectLevel, "subject_sportabzeichen"))

	mux.HandleFunc("POST /catalog/reload", MetricsMiddleware(s.catalogHandler.HandleReload, "catalog_reload"))
}

type ackResponse struct {
	Status        string `json:"status"`
	MeasurementID string `json:"measurementId,omitempty"`
	Duplicate     bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps a service error onto a status code.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrBackpressure), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "backpressure"
	case service.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case service.IsInputError(err):
		return http.StatusBadRequest, "bad_request"
	case service.IsConfigError(err):
		return http.StatusUnprocessableEntity, "configuration_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

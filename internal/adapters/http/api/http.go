// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prosegauge/prosegauge/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Evaluate scores one text synchronously through the full pipeline.
	Evaluate(ctx context.Context, text string) (types.Evaluation, error)

	// EvaluateBatch scores several texts, preserving input order.
	EvaluateBatch(ctx context.Context, texts []string) ([]types.Evaluation, error)

	// SubmitSample queues a labeled text for async calibration scoring.
	SubmitSample(ctx context.Context, text, label string) (types.SubmitStatus, error)

	// CalibrationStats reports per-label aggregates over the dataset.
	CalibrationStats(ctx context.Context) (types.CalibrationStats, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	analyzeHandler     *AnalyzeHandler
	batchHandler       *BatchHandler
	calibrationHandler *CalibrationHandler

	maxBatchSize int
	maxTextBytes int64
}

// ServerOption customizes request limits on the Server.
type ServerOption func(*Server)

// WithMaxBatchSize caps the number of texts accepted per batch request.
func WithMaxBatchSize(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithMaxTextBytes caps request body sizes.
func WithMaxTextBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.maxTextBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		maxBatchSize:  32,
		maxTextBytes:  1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.analyzeHandler = NewAnalyzeHandler(deps, s.maxTextBytes)
	s.batchHandler = NewBatchHandler(deps, s.maxBatchSize, s.maxTextBytes)
	s.calibrationHandler = NewCalibrationHandler(deps, s.maxTextBytes)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/v1/analyze/batch", MetricsMiddleware(s.batchHandler.HandleBatch, "analyze_batch"))
	mux.HandleFunc("/v1/calibration", MetricsMiddleware(s.calibrationHandler.HandleSubmit, "calibration"))
	mux.HandleFunc("/v1/calibration/stats", MetricsMiddleware(s.calibrationHandler.HandleStats, "calibration_stats"))
}

// Analysis modes accepted on POST /v1/analyze.
const (
	modeScore     = "score"
	modeCalibrate = "calibrate"
)

// analyzeRequest mirrors the request schema for POST /v1/analyze.
type analyzeRequest struct {
	Text  string `json:"text"`
	Mode  string `json:"mode,omitempty"`
	Label string `json:"label,omitempty"`
}

func (a analyzeRequest) validate() error {
	if strings.TrimSpace(a.Text) == "" {
		return errors.New("missing text")
	}
	switch a.Mode {
	case "", modeScore, modeCalibrate:
	default:
		return errors.New("invalid mode; must be score or calibrate")
	}
	return nil
}

// analyzeSignals is the signal bundle reported in score mode. It carries the
// six raw signals plus the two sub-scores the ensemble folded in.
type analyzeSignals struct {
	types.Signals
	ZippyScore         float64 `json:"zippy_score"`
	DetectGPTStability float64 `json:"detectgpt_stability"`
}

// analyzeResponse is the score-mode response shape.
type analyzeResponse struct {
	AIProbability float64        `json:"ai_probability"`
	Confidence    string         `json:"confidence"`
	Degraded      bool           `json:"degraded,omitempty"`
	Signals       analyzeSignals `json:"signals"`
}

// calibrateResponse is the calibrate-mode response shape: raw signals and
// every sub-score, suitable for offline threshold tuning.
type calibrateResponse struct {
	Label   string        `json:"label"`
	Signals types.Signals `json:"signals"`
	Scores  types.Scores  `json:"scores"`
}

func newAnalyzeResponse(ev types.Evaluation) analyzeResponse {
	return analyzeResponse{
		AIProbability: ev.Scores.Ensemble,
		Confidence:    ev.Confidence,
		Degraded:      ev.Degraded,
		Signals: analyzeSignals{
			Signals:            ev.Signals,
			ZippyScore:         ev.Scores.Zippy,
			DetectGPTStability: ev.Scores.DetectGPT,
		},
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
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

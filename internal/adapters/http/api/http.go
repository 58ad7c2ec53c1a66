// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/diabcheck/internal/app"
	"github.com/okian/diabcheck/internal/domain/survey"
	"github.com/okian/diabcheck/pkg/logger"
	"github.com/okian/diabcheck/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Form() service.Form
	Predict(ctx context.Context, answers map[string]survey.Raw) (service.Outcome, error)
	Ready() bool
}

// Server wires HTTP routes for the survey API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	questionsHandler *QuestionsHandler
	predictHandler   *PredictHandler
}

// Option configures a Server.
type Option func(*options)

type options struct {
	maxRequestBytes int64
	logger          logger.Logger
}

// WithMaxRequestBytes caps the size of a /predict body.
func WithMaxRequestBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRequestBytes = n
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{maxRequestBytes: 64 << 10}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		questionsHandler: NewQuestionsHandler(deps),
		predictHandler:   NewPredictHandler(deps, o.maxRequestBytes, o.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/questions", MetricsMiddleware(s.questionsHandler.HandleQuestions, "questions"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
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

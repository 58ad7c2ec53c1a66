package api

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/diabcheck/pkg/metrics"
)

// Readiness reports whether artifacts are loaded.
type Readiness interface {
	Ready() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	ready Readiness
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready Readiness) *HealthHandler {
	return &HealthHandler{ready: ready}
}

type healthResponse struct {
	Status          string `json:"status"`
	ArtifactsLoaded bool   `json:"artifacts_loaded"`
}

// HandleHealth handles GET /healthz requests.
// If the Accept header contains "application/openmetrics-text" or "text/plain",
// it returns Prometheus metrics. Otherwise, it returns JSON health status.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/openmetrics-text") || strings.Contains(accept, "text/plain") {
		promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
		return
	}

	if h.ready == nil || !h.ready.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", ArtifactsLoaded: true})
}

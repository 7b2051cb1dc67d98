package handlers

import (
	"net/http"

	"github.com/ramonehamilton/handsim/internal/api/response"
	"github.com/ramonehamilton/handsim/internal/metrics"
)

// MetricsHandler exposes simulation metrics.
type MetricsHandler struct {
	metrics *metrics.SimulationMetrics
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(m *metrics.SimulationMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// GetMetrics returns a snapshot of the simulation metrics.
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.metrics.GetStats())
}

// Package observability provides metrics and monitoring capabilities for the application.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planboard/planboard/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Board    *metrics.BoardMetrics
	AI       *metrics.AIMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	boardMetrics, err := metrics.NewBoardMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create board metrics: %w", err)
	}

	aiMetrics, err := metrics.NewAIMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Board:    boardMetrics,
		AI:       aiMetrics,
	}, nil
}

// Handler returns an http.Handler serving the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics provides Prometheus metric collectors for the application.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BoardMetrics contains Prometheus metrics for content board operations
type BoardMetrics struct {
	itemOperationsTotal   *prometheus.CounterVec
	ratingOperationsTotal *prometheus.CounterVec
	publicationQueueSize  prometheus.Gauge
}

// NewBoardMetrics creates and registers the content board metric collectors.
func NewBoardMetrics(registry *prometheus.Registry) (*BoardMetrics, error) {
	m := &BoardMetrics{
		itemOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_item_operations_total",
				Help: "Total number of content item operations",
			},
			[]string{"operation", "status"},
		),
		ratingOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_rating_operations_total",
				Help: "Total number of rating operations",
			},
			[]string{"operation", "status"},
		),
		publicationQueueSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "planboard_publication_queue_size",
				Help: "Number of items currently in the publication queue",
			},
		),
	}

	if err := registry.Register(m.itemOperationsTotal); err != nil {
		return nil, err
	}
	if err := registry.Register(m.ratingOperationsTotal); err != nil {
		return nil, err
	}
	if err := registry.Register(m.publicationQueueSize); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordItemOperation increments the item operation counter.
func (m *BoardMetrics) RecordItemOperation(operation, status string) {
	m.itemOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordRatingOperation increments the rating operation counter.
func (m *BoardMetrics) RecordRatingOperation(operation, status string) {
	m.ratingOperationsTotal.WithLabelValues(operation, status).Inc()
}

// SetPublicationQueueSize records the queue size observed on the last read.
func (m *BoardMetrics) SetPublicationQueueSize(size int) {
	m.publicationQueueSize.Set(float64(size))
}

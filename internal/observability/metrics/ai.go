package metrics

import "github.com/prometheus/client_golang/prometheus"

// AIMetrics contains Prometheus metrics for AI provider usage
type AIMetrics struct {
	requestsTotal  *prometheus.CounterVec
	tokensTotal    *prometheus.CounterVec
	cacheHitsTotal *prometheus.CounterVec
}

// NewAIMetrics creates and registers the AI provider metric collectors.
func NewAIMetrics(registry *prometheus.Registry) (*AIMetrics, error) {
	m := &AIMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_ai_requests_total",
				Help: "Total number of AI provider requests",
			},
			[]string{"operation", "status"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_ai_tokens_total",
				Help: "Total number of tokens consumed by AI requests",
			},
			[]string{"direction"},
		),
		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_ai_cache_events_total",
				Help: "AI response cache hits and misses",
			},
			[]string{"event"},
		),
	}

	if err := registry.Register(m.requestsTotal); err != nil {
		return nil, err
	}
	if err := registry.Register(m.tokensTotal); err != nil {
		return nil, err
	}
	if err := registry.Register(m.cacheHitsTotal); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordRequest increments the AI request counter.
func (m *AIMetrics) RecordRequest(operation, status string) {
	m.requestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordTokens accumulates token usage.
func (m *AIMetrics) RecordTokens(inputTokens, outputTokens int64) {
	m.tokensTotal.WithLabelValues("input").Add(float64(inputTokens))
	m.tokensTotal.WithLabelValues("output").Add(float64(outputTokens))
}

// RecordCacheHit increments the cache hit counter.
func (m *AIMetrics) RecordCacheHit() {
	m.cacheHitsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *AIMetrics) RecordCacheMiss() {
	m.cacheHitsTotal.WithLabelValues("miss").Inc()
}

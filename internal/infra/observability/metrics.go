package observability

import (
	"time"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the shop assistant.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheReads      *prometheus.CounterVec
	catalogRefresh  *prometheus.CounterVec
	catalogProducts prometheus.Gauge
	intents         *prometheus.CounterVec
	tokensUsed      *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shopbot_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_catalog_cache_reads_total",
				Help: "Catalog cache reads by outcome (hit, stale, miss).",
			},
			[]string{"outcome"},
		),
		catalogRefresh: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_catalog_refreshes_total",
				Help: "Catalog refresh attempts by result.",
			},
			[]string{"result"},
		),
		catalogProducts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shopbot_catalog_products",
				Help: "Number of products in the current catalog snapshot.",
			},
		),
		intents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_intents_total",
				Help: "Classified chat intents by category tag.",
			},
			[]string{"tag"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_llm_tokens_total",
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shopbot_requests_total",
				Help: "Total chat requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheRead increments the catalog cache read counter for an outcome:
// "hit" (fresh), "stale" (served while expired), "miss" (upstream fetch).
func (m *Metrics) IncrCacheRead(outcome string) {
	m.cacheReads.WithLabelValues(outcome).Inc()
}

// IncrCatalogRefresh increments the refresh counter ("success" or "failure").
func (m *Metrics) IncrCatalogRefresh(result string) {
	m.catalogRefresh.WithLabelValues(result).Inc()
}

// SetCatalogProducts records the size of the current snapshot.
func (m *Metrics) SetCatalogProducts(n int) {
	m.catalogProducts.Set(float64(n))
}

// IncrIntent increments the per-category intent counter.
func (m *Metrics) IncrIntent(tag domain.CategoryTag) {
	m.intents.WithLabelValues(string(tag)).Inc()
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetAssistantSnapshot returns a snapshot of assistant-related metrics for
// the GET /v1/metrics/assistant endpoint.
func (m *Metrics) GetAssistantSnapshot() *domain.AssistantMetrics {
	// Prometheus counters expose cumulative values.
	promptTokens := getCounterValue(m.tokensUsed, "prompt")
	completionTokens := getCounterValue(m.tokensUsed, "completion")
	totalRequests := getCounterValue(m.requestsTotal, "success") +
		getCounterValue(m.requestsTotal, "error") +
		getCounterValue(m.requestsTotal, "degraded")
	errorCount := getCounterValue(m.requestsTotal, "error")
	cacheHits := getCounterValue(m.cacheReads, "hit") + getCounterValue(m.cacheReads, "stale")
	cacheMisses := getCounterValue(m.cacheReads, "miss")

	totalTokens := promptTokens + completionTokens
	avgTokens := float64(0)
	errorRate := float64(0)
	cacheHitRate := float64(0)

	if totalRequests > 0 {
		avgTokens = totalTokens / totalRequests
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	// Estimated cost: rough Gemini Flash pricing per 1k tokens.
	estimatedCost := (promptTokens/1000)*0.000075 + (completionTokens/1000)*0.0003

	return &domain.AssistantMetrics{
		TotalRequests:       int64(totalRequests),
		ErrorRate:           errorRate,
		AvgTokensPerRequest: avgTokens,
		EstimatedCostUsd:    estimatedCost,
		CacheHitRate:        cacheHitRate,
		Period:              "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	AssessmentsTotal   *prometheus.CounterVec
	AssessmentDuration *prometheus.HistogramVec

	FetchRequestsTotal   *prometheus.CounterVec
	FetchRequestDuration prometheus.Histogram

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	BatchOutcomesTotal *prometheus.CounterVec
	BatchesInFlight    prometheus.Gauge

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitWait prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		AssessmentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kye_screener_assessments_total",
				Help: "Total number of risk assessments by resulting level",
			},
			[]string{"level", "status"},
		),
		AssessmentDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kye_screener_assessment_duration_seconds",
				Help:    "End-to-end assessment duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"enriched"},
		),

		FetchRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kye_screener_fetch_requests_total",
				Help: "Total number of case-record provider requests",
			},
			[]string{"status"},
		),
		FetchRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kye_screener_fetch_request_duration_seconds",
				Help:    "Case-record fetch duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),

		LLMRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kye_screener_llm_requests_total",
				Help: "Total number of text-generation API requests",
			},
			[]string{"provider", "status"},
		),
		LLMRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kye_screener_llm_request_duration_seconds",
				Help:    "Text-generation request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		BatchOutcomesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kye_screener_batch_outcomes_total",
				Help: "Total number of per-subject batch outcomes",
			},
			[]string{"status"},
		),
		BatchesInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "kye_screener_batches_in_flight",
				Help: "Number of batches currently being processed",
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kye_screener_cache_hits_total",
				Help: "Total number of record cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kye_screener_cache_misses_total",
				Help: "Total number of record cache misses",
			},
		),

		RateLimitWait: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kye_screener_rate_limit_wait_seconds",
				Help:    "Time spent waiting for an analyzer rate-limit slot",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordAssessment(level, status string, enriched bool, duration time.Duration) {
	m.AssessmentsTotal.WithLabelValues(level, status).Inc()
	enrichedLabel := "false"
	if enriched {
		enrichedLabel = "true"
	}
	m.AssessmentDuration.WithLabelValues(enrichedLabel).Observe(duration.Seconds())
}

func (m *Metrics) RecordFetch(status string, duration time.Duration) {
	m.FetchRequestsTotal.WithLabelValues(status).Inc()
	m.FetchRequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(provider, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordBatchOutcome(status string) {
	m.BatchOutcomesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) RecordRateLimitWait(duration time.Duration) {
	m.RateLimitWait.Observe(duration.Seconds())
}

func (m *Metrics) IncBatchesInFlight() {
	m.BatchesInFlight.Inc()
}

func (m *Metrics) DecBatchesInFlight() {
	m.BatchesInFlight.Dec()
}

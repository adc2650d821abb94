package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the sentinel.
type Metrics struct {
	registry *prometheus.Registry

	// Collector
	FetchTotal    *prometheus.CounterVec // labels: source, result=ok|error
	FetchDur      prometheus.Histogram
	CacheRequests *prometheus.CounterVec // labels: result=hit|miss

	// Evaluations
	EvaluationsTotal *prometheus.CounterVec // labels: kind=pair|credit|overall, status
	InsufficientData prometheus.Counter
	LastRSSMA        *prometheus.GaugeVec // labels: asset, bench
	EvaluateDur      prometheus.Histogram
}

// NewMetrics creates the metrics on a private registry so several instances can coexist in tests.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_fetch_total",
			Help: "Price series fetches by source and result",
		}, []string{"source", "result"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_fetch_duration_seconds",
			Help:    "Upstream price fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_cache_requests_total",
			Help: "Series cache lookups by result",
		}, []string{"result"}),
		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_evaluations_total",
			Help: "Classifications by kind and resulting status",
		}, []string{"kind", "status"}),
		InsufficientData: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_insufficient_data_total",
			Help: "Pair evaluations stopped by the minimum aligned-row floor",
		}),
		LastRSSMA: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_rs_sma_last",
			Help: "Last valid RS SMA value per pair",
		}, []string{"asset", "bench"}),
		EvaluateDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_evaluate_duration_seconds",
			Help:    "Pair evaluation latency including fetch",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	m.registry.MustRegister(
		m.FetchTotal, m.FetchDur, m.CacheRequests,
		m.EvaluationsTotal, m.InsufficientData, m.LastRSSMA, m.EvaluateDur,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// The helpers below are nil-safe so components can run without metrics.

func (m *Metrics) ObserveFetch(source string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchTotal.WithLabelValues(source, result).Inc()
	m.FetchDur.Observe(time.Since(start).Seconds())
}

func (m *Metrics) CacheHit(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheRequests.WithLabelValues("hit").Inc()
	} else {
		m.CacheRequests.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) ObserveStatus(kind, status string) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) ObserveInsufficient() {
	if m == nil {
		return
	}
	m.InsufficientData.Inc()
}

func (m *Metrics) SetLastRSSMA(asset, bench string, v float64) {
	if m == nil {
		return
	}
	m.LastRSSMA.WithLabelValues(asset, bench).Set(v)
}

func (m *Metrics) ObserveEvaluate(start time.Time) {
	if m == nil {
		return
	}
	m.EvaluateDur.Observe(time.Since(start).Seconds())
}

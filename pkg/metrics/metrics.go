// Package metrics defines the Prometheus metric collectors used across the
// search subsystem and exposes an HTTP handler for scraping. Every recording
// helper is safe to call on a nil *Metrics, which disables collection.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ShardFetchesTotal    *prometheus.CounterVec
	ShardFetchDuration   *prometheus.HistogramVec
	ShardLoadsCoalesced  prometheus.Counter
	ShardsCached         *prometheus.GaugeVec
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        prometheus.Histogram
	SearchResultsCount   prometheus.Histogram
	MatchesTotal         *prometheus.CounterVec
	StaleResultsDropped  prometheus.Counter
	CircuitBreakerState  *prometheus.GaugeVec
}

// New creates all collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ShardFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shard_fetches_total",
				Help: "Shard artifact fetches by source and outcome (ok, not_found, error).",
			},
			[]string{"source", "outcome"},
		),
		ShardFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shard_fetch_duration_seconds",
				Help:    "Shard artifact fetch latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"source"},
		),
		ShardLoadsCoalesced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shard_loads_coalesced_total",
				Help: "Shard requests that waited on another caller's in-flight load.",
			},
		),
		ShardsCached: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shards_cached",
				Help: "Number of shards held in the store, by category.",
			},
			[]string{"category"},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Settled search queries by outcome (results, empty, unavailable).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Match and rank latency including any shard load, in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of result records returned per settled query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		MatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_matches_total",
				Help: "Matched entries by match class (exact, prefix, substring).",
			},
			[]string{"class"},
		),
		StaleResultsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_stale_results_dropped_total",
				Help: "Query results discarded because a newer query superseded them.",
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ShardFetchesTotal,
		m.ShardFetchDuration,
		m.ShardLoadsCoalesced,
		m.ShardsCached,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.MatchesTotal,
		m.StaleResultsDropped,
		m.CircuitBreakerState,
	)

	return m
}

// ObserveFetch records one shard fetch.
func (m *Metrics) ObserveFetch(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ShardFetchesTotal.WithLabelValues(source, outcome).Inc()
	m.ShardFetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

// Coalesced records a caller that joined an in-flight load.
func (m *Metrics) Coalesced() {
	if m == nil {
		return
	}
	m.ShardLoadsCoalesced.Inc()
}

// SetCached records the number of shards held for category.
func (m *Metrics) SetCached(category string, n int) {
	if m == nil {
		return
	}
	m.ShardsCached.WithLabelValues(category).Set(float64(n))
}

// ObserveQuery records a settled query.
func (m *Metrics) ObserveQuery(outcome string, results int, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	m.SearchResultsCount.Observe(float64(results))
	m.SearchLatency.Observe(d.Seconds())
}

// ObserveMatches adds n matches of the given class.
func (m *Metrics) ObserveMatches(class string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.MatchesTotal.WithLabelValues(class).Add(float64(n))
}

// StaleDropped records a discarded stale result.
func (m *Metrics) StaleDropped() {
	if m == nil {
		return
	}
	m.StaleResultsDropped.Inc()
}

// SetBreakerState records a circuit breaker transition.
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// Handler returns the Prometheus scrape HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Package metrics implements the observability hooks with Prometheus
// collectors and serves them over HTTP.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/almanac/pkg/observability"
)

const namespace = "almanac"

// Metrics owns a registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	parses        *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	solves        *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
	stageRanges   *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Almanacs parsed, by format and outcome.",
		}, []string{"format", "outcome"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing almanacs.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"format"}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Solves run, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Time spent pushing ranges through all stages.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode"}),
		stageRanges: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_output_ranges",
			Help:      "Ranges produced by a single stage.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"stage"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.parses, m.parseDuration,
		m.solves, m.solveDuration, m.stageRanges,
		m.cacheEvents, m.cacheBytes,
		m.requests, m.latency,
	)
	return m
}

// Install registers m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(pipelineHooks{m})
	observability.SetCacheHooks(cacheHooks{m})
	observability.SetHTTPHooks(httpHooks{m})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ===== Pipeline =====

type pipelineHooks struct{ m *Metrics }

func (pipelineHooks) OnParseStart(context.Context, string) {}

func (h pipelineHooks) OnParseComplete(_ context.Context, format string, _ int, d time.Duration, err error) {
	h.m.parses.WithLabelValues(format, outcome(err)).Inc()
	h.m.parseDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (pipelineHooks) OnSolveStart(context.Context, string, int) {}

func (h pipelineHooks) OnStageApplied(_ context.Context, stage string, _, out int) {
	h.m.stageRanges.WithLabelValues(stage).Observe(float64(out))
}

func (h pipelineHooks) OnSolveComplete(_ context.Context, mode string, _ int, d time.Duration, err error) {
	h.m.solves.WithLabelValues(mode, outcome(err)).Inc()
	h.m.solveDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ===== Cache =====

type cacheHooks struct{ m *Metrics }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// ===== HTTP =====

type httpHooks struct{ m *Metrics }

func (httpHooks) OnRequest(context.Context, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

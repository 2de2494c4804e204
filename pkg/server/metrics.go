package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/vegabundle/pkg/observability"
)

// Metrics exports pipeline, cache and HTTP events as Prometheus metrics.
// It implements the observability hook interfaces; call Register to install it.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	parseTotal    *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	analyzeTotal  *prometheus.CounterVec
	modulesPerRun prometheus.Histogram

	buildTotal    *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	bundleSize    *prometheus.HistogramVec

	cacheTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg uses
// a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	durations := []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

	return &Metrics{
		gatherer: reg,

		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vegabundle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vegabundle_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: durations,
			},
			[]string{"method", "route"},
		),
		httpRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "vegabundle_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),

		parseTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vegabundle_parse_total",
				Help: "Specs parsed, by dialect and result",
			},
			[]string{"dialect", "result"},
		),
		parseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vegabundle_parse_duration_seconds",
				Help:    "Spec parse latency in seconds",
				Buckets: durations,
			},
			[]string{"dialect"},
		),
		analyzeTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vegabundle_analyze_total",
				Help: "Analysis runs by result",
			},
			[]string{"result"},
		),
		modulesPerRun: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vegabundle_modules_per_bundle",
				Help:    "Transform modules required per analyzed bundle",
				Buckets: prometheus.LinearBuckets(0, 1, 10),
			},
		),

		buildTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vegabundle_build_total",
				Help: "Bundler runs by format and result",
			},
			[]string{"format", "result"},
		),
		buildDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vegabundle_build_duration_seconds",
				Help:    "Bundler latency in seconds",
				Buckets: durations,
			},
			[]string{"format"},
		),
		bundleSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vegabundle_bundle_size_bytes",
				Help:    "Compiled bundle size in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"format"},
		),

		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vegabundle_cache_operations_total",
				Help: "Cache lookups and writes by kind and outcome",
			},
			[]string{"kind", "op"},
		),
	}
}

// Register installs m as the process-wide HTTP hooks and adds it alongside
// any pipeline and cache hooks already registered.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(observability.TeePipeline(observability.Pipeline(), m))
	observability.SetCacheHooks(observability.TeeCache(observability.Cache(), m))
	observability.SetHTTPHooks(m)
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string, string) {
	m.httpRequestsInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequestsInFlight.Dec()
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnParseStart implements observability.PipelineHooks.
func (m *Metrics) OnParseStart(context.Context, string) {}

// OnParseComplete implements observability.PipelineHooks.
func (m *Metrics) OnParseComplete(_ context.Context, _, dialect string, _ int, d time.Duration, err error) {
	if dialect == "" {
		dialect = "unknown"
	}
	m.parseTotal.WithLabelValues(dialect, result(err)).Inc()
	m.parseDuration.WithLabelValues(dialect).Observe(d.Seconds())
}

// OnAnalyzeComplete implements observability.PipelineHooks.
func (m *Metrics) OnAnalyzeComplete(_ context.Context, _, modules, _ int, err error) {
	m.analyzeTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.modulesPerRun.Observe(float64(modules))
	}
}

// OnBuildStart implements observability.PipelineHooks.
func (m *Metrics) OnBuildStart(context.Context, string, int) {}

// OnBuildComplete implements observability.PipelineHooks.
func (m *Metrics) OnBuildComplete(_ context.Context, format string, bundleBytes int, d time.Duration, err error) {
	m.buildTotal.WithLabelValues(format, result(err)).Inc()
	m.buildDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		m.bundleSize.WithLabelValues(format).Observe(float64(bundleBytes))
	}
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheTotal.WithLabelValues(keyType, "set").Inc()
}

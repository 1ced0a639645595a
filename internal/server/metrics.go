package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/observability"
)

const namespace = "archdiagram"

// Metrics holds the Prometheus collectors of a server. It implements the
// observability hook interfaces, so builder, pipeline and cache events are
// counted once the hooks are installed.
type Metrics struct {
	registry *prometheus.Registry

	diagrams       *prometheus.CounterVec
	buildDuration  *prometheus.HistogramVec
	buildsInFlight prometheus.Gauge
	diagramNodes   prometheus.Histogram
	renderDuration *prometheus.HistogramVec
	cacheRequests  *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		diagrams: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagrams_finalized_total",
				Help:      "Finalized diagrams by outcome.",
			},
			[]string{"result"}, // "rendered", "sealed" or an error code
		),
		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "build_duration_seconds",
				Help:      "Time to build and render one diagram.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"result"},
		),
		buildsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "builds_in_flight",
				Help:      "Diagram builds currently running.",
			},
		),
		diagramNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "diagram_nodes",
				Help:      "Node count of successfully built diagrams.",
				Buckets:   prometheus.LinearBuckets(5, 5, 8),
			},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "render_duration_seconds",
				Help:      "Time spent in the renderer.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
			[]string{"result"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Cache lookups by key type and outcome.",
			},
			[]string{"key_type", "result"}, // result is "hit" or "miss"
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "written_bytes_total",
				Help:      "Bytes stored in the cache.",
			},
			[]string{"key_type"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.diagrams,
		m.buildDuration,
		m.buildsInFlight,
		m.diagramNodes,
		m.renderDuration,
		m.cacheRequests,
		m.cacheBytes,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install registers m as the process-wide diagram, pipeline and cache hooks.
func (m *Metrics) Install() {
	observability.SetDiagramHooks(m)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
}

// resultLabel maps an error to a bounded label value: "success" or its code.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

// OnFinalize implements observability.DiagramHooks.
func (m *Metrics) OnFinalize(_ context.Context, _ string, rendered bool, err error) {
	result := "sealed"
	switch {
	case err != nil:
		result = resultLabel(err)
	case rendered:
		result = "rendered"
	}
	m.diagrams.WithLabelValues(result).Inc()
}

// OnBuildStart implements observability.PipelineHooks.
func (m *Metrics) OnBuildStart(context.Context, string) {
	m.buildsInFlight.Inc()
}

// OnBuildComplete implements observability.PipelineHooks.
func (m *Metrics) OnBuildComplete(_ context.Context, _ string, nodes, _ int, d time.Duration, err error) {
	m.buildsInFlight.Dec()
	m.buildDuration.WithLabelValues(resultLabel(err)).Observe(d.Seconds())
	if err == nil {
		m.diagramNodes.Observe(float64(nodes))
	}
}

// OnRenderStart implements observability.PipelineHooks.
func (m *Metrics) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements observability.PipelineHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(resultLabel(err)).Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// observeRequest records one served HTTP request.
func (m *Metrics) observeRequest(method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ observability.DiagramHooks  = (*Metrics)(nil)
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)

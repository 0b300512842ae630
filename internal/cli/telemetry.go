package cli

import (
	"context"
	stderrors "errors"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/fleetingdev/fleeting/pkg/buildinfo"
	"github.com/fleetingdev/fleeting/pkg/observability"
)

// telemetry owns the optional trace exporter and metrics registry.
type telemetry struct {
	tp          *sdktrace.TracerProvider
	metrics     *metrics
	metricsFile string
}

// startTelemetry starts what cfg enables. Trace spans are written to w.
func startTelemetry(cfg TelemetryConfig, w io.Writer) (*telemetry, error) {
	t := &telemetry{metricsFile: cfg.MetricsFile}

	if cfg.Trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		t.tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(resource.NewSchemaless(
				attribute.String("service.name", appName),
				attribute.String("service.version", buildinfo.Version),
			)),
		)
	}

	if cfg.MetricsFile != "" {
		t.metrics = newMetrics()
		observability.SetSuggestHooks(t.metrics)
		observability.SetCacheHooks(t.metrics)
		observability.SetHTTPHooks(t.metrics)
	}
	return t, nil
}

// tracerProvider returns nil when tracing is off so callers keep the
// global provider.
func (t *telemetry) tracerProvider() trace.TracerProvider {
	if t == nil || t.tp == nil {
		return nil
	}
	return t.tp
}

// Close flushes spans and writes the metrics file.
func (t *telemetry) Close(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.metrics != nil {
		errs = append(errs, prometheus.WriteToTextfile(t.metricsFile, t.metrics.registry))
		observability.Reset()
	}
	return stderrors.Join(errs...)
}

// =============================================================================
// Prometheus Hooks
// =============================================================================

// metrics implements the observability hooks on a private registry.
type metrics struct {
	registry *prometheus.Registry

	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	staleDiscards  *prometheus.CounterVec

	cacheEvents  *prometheus.CounterVec
	cacheWritten *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleeting_suggest_lookups_total",
			Help: "Suggestion lookups by field and result.",
		}, []string{"field", "result"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fleeting_suggest_lookup_duration_seconds",
			Help:    "Time spent in suggestion sources.",
			Buckets: prometheus.DefBuckets,
		}, []string{"field"}),
		staleDiscards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleeting_suggest_stale_discards_total",
			Help: "Lookup results dropped because the input changed.",
		}, []string{"field"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleeting_cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleeting_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleeting_http_responses_total",
			Help: "HTTP responses by host and status code.",
		}, []string{"method", "host", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fleeting_http_request_duration_seconds",
			Help:    "HTTP request latency by host.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleeting_http_errors_total",
			Help: "HTTP requests that failed before a response.",
		}, []string{"method", "host"}),
	}
	m.registry.MustRegister(
		m.lookups, m.lookupDuration, m.staleDiscards,
		m.cacheEvents, m.cacheWritten,
		m.httpRequests, m.httpDuration, m.httpErrors,
	)
	return m
}

func (m *metrics) OnLookupStart(context.Context, string) {}

func (m *metrics) OnLookupComplete(_ context.Context, field string, count int, d time.Duration, err error) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case count == 0:
		result = "empty"
	}
	m.lookups.WithLabelValues(field, result).Inc()
	m.lookupDuration.WithLabelValues(field).Observe(d.Seconds())
}

func (m *metrics) OnStaleDiscard(_ context.Context, field string) {
	m.staleDiscards.WithLabelValues(field).Inc()
}

func (m *metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheWritten.WithLabelValues(keyType).Add(float64(size))
}

func (m *metrics) OnRequest(context.Context, string, string, string) {}

func (m *metrics) OnResponse(_ context.Context, method, host, _ string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, host, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (m *metrics) OnError(_ context.Context, method, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(method, host).Inc()
}

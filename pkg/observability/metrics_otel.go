package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics holds OpenTelemetry metric instruments
type OTelMetrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	httpRequestSize     metric.Int64Histogram
	httpResponseSize    metric.Int64Histogram

	// Graph build metrics
	graphBuildsTotal   metric.Int64Counter
	graphBuildDuration metric.Float64Histogram
	graphNodes         metric.Int64Gauge
	graphEdges         metric.Int64Gauge

	// Diff metrics
	diffsTotal   metric.Int64Counter
	diffDuration metric.Float64Histogram

	// Cache metrics
	cacheHitsTotal      metric.Int64Counter
	cacheMissesTotal    metric.Int64Counter
	cacheEvictionsTotal metric.Int64Counter

	// Watch metrics
	watchEventsTotal metric.Int64Counter
}

// NewOTelMetrics creates a new OTel metrics instance
func NewOTelMetrics() (*OTelMetrics, error) {
	meter := otel.Meter("github.com/platinummonkey/coral")

	m := &OTelMetrics{}
	var err error

	// HTTP metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration histogram: %w", err)
	}

	m.httpRequestSize, err = meter.Int64Histogram(
		"http.server.request.size",
		metric.WithDescription("HTTP request size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_size histogram: %w", err)
	}

	m.httpResponseSize, err = meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("HTTP response size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_response_size histogram: %w", err)
	}

	// Graph build metrics
	m.graphBuildsTotal, err = meter.Int64Counter(
		"graph.builds.total",
		metric.WithDescription("Total number of graph builds"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph_builds_total counter: %w", err)
	}

	m.graphBuildDuration, err = meter.Float64Histogram(
		"graph.build.duration",
		metric.WithDescription("Graph build duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph_build_duration histogram: %w", err)
	}

	m.graphNodes, err = meter.Int64Gauge(
		"graph.nodes",
		metric.WithDescription("Number of nodes in the current graph snapshot"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph_nodes gauge: %w", err)
	}

	m.graphEdges, err = meter.Int64Gauge(
		"graph.edges",
		metric.WithDescription("Number of edges in the current graph snapshot"),
		metric.WithUnit("{edge}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph_edges gauge: %w", err)
	}

	// Diff metrics
	m.diffsTotal, err = meter.Int64Counter(
		"diff.computations.total",
		metric.WithDescription("Total number of graph diffs computed"),
		metric.WithUnit("{diff}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create diffs_total counter: %w", err)
	}

	m.diffDuration, err = meter.Float64Histogram(
		"diff.computation.duration",
		metric.WithDescription("Graph diff duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create diff_duration histogram: %w", err)
	}

	// Cache metrics
	m.cacheHitsTotal, err = meter.Int64Counter(
		"cache.hits.total",
		metric.WithDescription("Total number of cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache_hits_total counter: %w", err)
	}

	m.cacheMissesTotal, err = meter.Int64Counter(
		"cache.misses.total",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache_misses_total counter: %w", err)
	}

	m.cacheEvictionsTotal, err = meter.Int64Counter(
		"cache.evictions.total",
		metric.WithDescription("Total number of cache evictions"),
		metric.WithUnit("{eviction}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache_evictions_total counter: %w", err)
	}

	// Watch metrics
	m.watchEventsTotal, err = meter.Int64Counter(
		"watch.events.total",
		metric.WithDescription("Total number of filesystem watch events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create watch_events_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *OTelMetrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration, requestSize, responseSize int64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if requestSize > 0 {
		m.httpRequestSize.Record(ctx, requestSize, metric.WithAttributes(attrs...))
	}
	if responseSize > 0 {
		m.httpResponseSize.Record(ctx, responseSize, metric.WithAttributes(attrs...))
	}
}

// RecordGraphBuild records a graph build metric
func (m *OTelMetrics) RecordGraphBuild(ctx context.Context, trigger string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("build.trigger", trigger),
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error", "true"))
	} else {
		attrs = append(attrs, attribute.String("error", "false"))
	}

	m.graphBuildsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.graphBuildDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// UpdateGraphStats updates the graph snapshot gauges
func (m *OTelMetrics) UpdateGraphStats(ctx context.Context, nodes, edges int) {
	m.graphNodes.Record(ctx, int64(nodes))
	m.graphEdges.Record(ctx, int64(edges))
}

// RecordDiff records a graph diff metric
func (m *OTelMetrics) RecordDiff(ctx context.Context, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{}
	if err != nil {
		attrs = append(attrs, attribute.String("error", "true"))
	} else {
		attrs = append(attrs, attribute.String("error", "false"))
	}

	m.diffsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.diffDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordCacheHit records a cache hit
func (m *OTelMetrics) RecordCacheHit(ctx context.Context, cacheType string) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.type", cacheType),
	}
	m.cacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCacheMiss records a cache miss
func (m *OTelMetrics) RecordCacheMiss(ctx context.Context, cacheType string) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.type", cacheType),
	}
	m.cacheMissesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCacheEviction records a cache eviction
func (m *OTelMetrics) RecordCacheEviction(ctx context.Context, cacheType string) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.type", cacheType),
	}
	m.cacheEvictionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordWatchEvent records a filesystem watch event
func (m *OTelMetrics) RecordWatchEvent(ctx context.Context, op string) {
	attrs := []attribute.KeyValue{
		attribute.String("watch.op", op),
	}
	m.watchEventsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

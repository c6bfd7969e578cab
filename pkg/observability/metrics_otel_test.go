package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupTestMeterProvider creates a test meter provider with a manual reader
func setupTestMeterProvider(t *testing.T) (*metric.MeterProvider, *metric.ManualReader) {
	t.Helper()
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)
	return provider, reader
}

func TestNewOTelMetrics(t *testing.T) {
	provider, _ := setupTestMeterProvider(t)
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down provider: %v", err)
		}
	}()

	m, err := NewOTelMetrics()
	if err != nil {
		t.Fatalf("NewOTelMetrics() error = %v, want nil", err)
	}

	if m == nil {
		t.Fatal("NewOTelMetrics() returned nil metrics")
	}

	// Verify that all metric instruments are initialized
	if m.httpRequestsTotal == nil {
		t.Error("httpRequestsTotal is nil")
	}
	if m.httpRequestDuration == nil {
		t.Error("httpRequestDuration is nil")
	}
	if m.httpRequestSize == nil {
		t.Error("httpRequestSize is nil")
	}
	if m.httpResponseSize == nil {
		t.Error("httpResponseSize is nil")
	}
	if m.graphBuildsTotal == nil {
		t.Error("graphBuildsTotal is nil")
	}
	if m.graphBuildDuration == nil {
		t.Error("graphBuildDuration is nil")
	}
	if m.graphNodes == nil {
		t.Error("graphNodes is nil")
	}
	if m.graphEdges == nil {
		t.Error("graphEdges is nil")
	}
	if m.diffsTotal == nil {
		t.Error("diffsTotal is nil")
	}
	if m.diffDuration == nil {
		t.Error("diffDuration is nil")
	}
	if m.cacheHitsTotal == nil {
		t.Error("cacheHitsTotal is nil")
	}
	if m.cacheMissesTotal == nil {
		t.Error("cacheMissesTotal is nil")
	}
	if m.cacheEvictionsTotal == nil {
		t.Error("cacheEvictionsTotal is nil")
	}
	if m.watchEventsTotal == nil {
		t.Error("watchEventsTotal is nil")
	}
}

// collectMetricNames gathers the names of all recorded metrics
func collectMetricNames(t *testing.T, reader *metric.ManualReader) map[string]bool {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestOTelMetrics_RecordHTTPRequest(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	defer provider.Shutdown(context.Background())

	m, err := NewOTelMetrics()
	if err != nil {
		t.Fatalf("NewOTelMetrics() error = %v", err)
	}

	m.RecordHTTPRequest(context.Background(), "GET", "/api/graph", 200, 100*time.Millisecond, 0, 1024)

	names := collectMetricNames(t, reader)
	if !names["http.server.requests"] {
		t.Error("Expected http.server.requests metric")
	}
	if !names["http.server.duration"] {
		t.Error("Expected http.server.duration metric")
	}
	if !names["http.server.response.size"] {
		t.Error("Expected http.server.response.size metric")
	}
	// Zero request size is skipped
	if names["http.server.request.size"] {
		t.Error("Did not expect http.server.request.size metric for empty body")
	}
}

func TestOTelMetrics_RecordGraphBuild(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	defer provider.Shutdown(context.Background())

	m, err := NewOTelMetrics()
	if err != nil {
		t.Fatalf("NewOTelMetrics() error = %v", err)
	}

	m.RecordGraphBuild(context.Background(), "watch", 50*time.Millisecond, nil)
	m.RecordGraphBuild(context.Background(), "watch", 10*time.Millisecond, errors.New("compile failed"))
	m.UpdateGraphStats(context.Background(), 12, 18)

	names := collectMetricNames(t, reader)
	for _, want := range []string{"graph.builds.total", "graph.build.duration", "graph.nodes", "graph.edges"} {
		if !names[want] {
			t.Errorf("Expected %s metric", want)
		}
	}
}

func TestOTelMetrics_RecordDiff(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	defer provider.Shutdown(context.Background())

	m, err := NewOTelMetrics()
	if err != nil {
		t.Fatalf("NewOTelMetrics() error = %v", err)
	}

	m.RecordDiff(context.Background(), 2*time.Millisecond, nil)

	names := collectMetricNames(t, reader)
	if !names["diff.computations.total"] {
		t.Error("Expected diff.computations.total metric")
	}
	if !names["diff.computation.duration"] {
		t.Error("Expected diff.computation.duration metric")
	}
}

func TestOTelMetrics_CacheAndWatch(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)
	defer provider.Shutdown(context.Background())

	m, err := NewOTelMetrics()
	if err != nil {
		t.Fatalf("NewOTelMetrics() error = %v", err)
	}

	m.RecordCacheHit(context.Background(), "descriptor")
	m.RecordCacheMiss(context.Background(), "descriptor")
	m.RecordCacheEviction(context.Background(), "descriptor")
	m.RecordWatchEvent(context.Background(), "write")

	names := collectMetricNames(t, reader)
	for _, want := range []string{"cache.hits.total", "cache.misses.total", "cache.evictions.total", "watch.events.total"} {
		if !names[want] {
			t.Errorf("Expected %s metric", want)
		}
	}
}

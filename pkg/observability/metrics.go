package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Graph build metrics
	GraphBuildsTotal   *prometheus.CounterVec
	GraphBuildDuration *prometheus.HistogramVec
	GraphNodes         *prometheus.GaugeVec
	GraphEdges         prometheus.Gauge
	GraphPackages      prometheus.Gauge

	// Proto compilation metrics
	CompilationsTotal   *prometheus.CounterVec
	CompilationDuration prometheus.Histogram

	// Diff metrics
	DiffsTotal   *prometheus.CounterVec
	DiffDuration prometheus.Histogram

	// Cache metrics
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	CacheEvictionsTotal prometheus.Counter
	CacheEntries        prometheus.Gauge

	// Watch metrics
	WatchEventsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coral_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coral_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coral_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coral_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		// Graph build metrics
		GraphBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coral_graph_builds_total",
				Help: "Total number of graph builds",
			},
			[]string{"trigger", "status"},
		),
		GraphBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coral_graph_build_duration_seconds",
				Help:    "Graph build duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		GraphNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coral_graph_nodes",
				Help: "Number of nodes in the current graph snapshot",
			},
			[]string{"kind"},
		),
		GraphEdges: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "coral_graph_edges",
				Help: "Number of edges in the current graph snapshot",
			},
		),
		GraphPackages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "coral_graph_packages",
				Help: "Number of packages in the current graph snapshot",
			},
		),

		// Proto compilation metrics
		CompilationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coral_compilations_total",
				Help: "Total number of proto compilations",
			},
			[]string{"status"},
		),
		CompilationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coral_compilation_duration_seconds",
				Help:    "Proto compilation duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),

		// Diff metrics
		DiffsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coral_diffs_total",
				Help: "Total number of graph diffs computed",
			},
			[]string{"status"},
		),
		DiffDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coral_diff_duration_seconds",
				Help:    "Graph diff duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),

		// Cache metrics
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "coral_cache_hits_total",
				Help: "Total number of descriptor cache hits",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "coral_cache_misses_total",
				Help: "Total number of descriptor cache misses",
			},
		),
		CacheEvictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "coral_cache_evictions_total",
				Help: "Total number of descriptor cache evictions",
			},
		),
		CacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "coral_cache_entries",
				Help: "Current number of descriptor cache entries",
			},
		),

		// Watch metrics
		WatchEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coral_watch_events_total",
				Help: "Total number of filesystem watch events",
			},
			[]string{"op"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSize,
		m.HTTPResponseSize,
		m.GraphBuildsTotal,
		m.GraphBuildDuration,
		m.GraphNodes,
		m.GraphEdges,
		m.GraphPackages,
		m.CompilationsTotal,
		m.CompilationDuration,
		m.DiffsTotal,
		m.DiffDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheEvictionsTotal,
		m.CacheEntries,
		m.WatchEventsTotal,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status and size
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			// Record request size
			if r.ContentLength > 0 {
				metrics.HTTPRequestSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(r.ContentLength))
			}

			// Serve the request
			next.ServeHTTP(rw, r)

			// Record metrics
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.bytesWritten))
		})
	}
}

// MetricsHandler returns the Prometheus scrape handler for the registry
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

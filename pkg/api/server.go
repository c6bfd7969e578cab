package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/coral/pkg/config"
	"github.com/platinummonkey/coral/pkg/graph"
	"github.com/platinummonkey/coral/pkg/httputil"
	"github.com/platinummonkey/coral/pkg/observability"
)

// Server serves the proto dependency graph over HTTP: the current graph
// snapshot, on-demand diffs, health probes, and Prometheus metrics.
type Server struct {
	config      *config.Config
	logger      *observability.Logger
	version     string
	registry    *prometheus.Registry
	metrics     *observability.Metrics
	otelMetrics *observability.OTelMetrics
	health      *observability.HealthChecker
	router      *mux.Router
	handler     http.Handler

	snapshot      atomic.Pointer[graph.Model]
	watcher       *Watcher
	shutdownFuncs []observability.ShutdownFunc
}

// NewServer creates a new graph API server. The snapshot starts empty;
// call SetSnapshot or Watch before serving traffic.
func NewServer(cfg *config.Config, logger *observability.Logger, version string) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger,
		version: version,
		router:  mux.NewRouter(),
	}

	if cfg.Observability.MetricsEnabled {
		s.registry = prometheus.NewRegistry()
		s.metrics = observability.NewMetrics(s.registry)
	}

	if cfg.Observability.OTelEnabled {
		otelMetrics, err := observability.NewOTelMetrics()
		if err != nil {
			logger.WithError(err).Warn("OpenTelemetry metrics unavailable")
		} else {
			s.otelMetrics = otelMetrics
		}
	}

	s.health = observability.NewHealthChecker(version, s.snapshotLoaded, nil)
	s.setupRoutes()
	s.buildHandler()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleLiveness).Methods("GET")
	s.router.HandleFunc("/health/live", s.handleLiveness).Methods("GET")
	s.router.HandleFunc("/health/ready", s.handleReadiness).Methods("GET")

	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")

	diffHandler := httputil.Chain(
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(maxDiffBodyBytes),
	)(http.HandlerFunc(s.handleDiff))
	s.router.Handle("/api/diff", diffHandler).Methods("POST")

	if s.metrics != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(s.registry)).Methods("GET")
	}

	if s.config.Server.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.Server.StaticDir)))
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusNotFound, "not found")
	})
}

// buildHandler wraps the router in the middleware chain. Request IDs are
// assigned first so every later stage logs them.
func (s *Server) buildHandler() {
	middlewares := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware(s.logger),
		httputil.CORSMiddleware(s.config.Server.AllowedOrigins),
	}
	if s.metrics != nil {
		middlewares = append(middlewares, observability.HTTPMetricsMiddleware(s.metrics))
	}

	var handler http.Handler = httputil.Chain(middlewares...)(s.router)
	if s.config.Observability.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "coral.api")
	}
	s.handler = handler
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SetSnapshot atomically replaces the served graph snapshot and refreshes
// the graph gauges. Safe to call while requests are in flight.
func (s *Server) SetSnapshot(model *graph.Model) {
	s.snapshot.Store(model)
	if model == nil {
		return
	}

	if s.metrics != nil {
		kinds := make(map[string]int)
		for i := range model.Nodes {
			kinds[string(model.Nodes[i].Kind)]++
		}
		s.metrics.GraphNodes.Reset()
		for kind, count := range kinds {
			s.metrics.GraphNodes.WithLabelValues(kind).Set(float64(count))
		}
		s.metrics.GraphEdges.Set(float64(len(model.Edges)))
		s.metrics.GraphPackages.Set(float64(len(model.Packages)))
	}
	if s.otelMetrics != nil {
		s.otelMetrics.UpdateGraphStats(context.Background(), len(model.Nodes), len(model.Edges))
	}
}

// Snapshot returns the current graph snapshot, or nil if none is loaded.
func (s *Server) Snapshot() *graph.Model {
	return s.snapshot.Load()
}

func (s *Server) snapshotLoaded() bool {
	return s.snapshot.Load() != nil
}

// Metrics returns the server's Prometheus metrics, or nil when metrics
// are disabled.
func (s *Server) Metrics() *observability.Metrics {
	return s.metrics
}

// Watch builds the first snapshot from source, then starts a filesystem
// watcher that rebuilds it on changes. The initial build runs
// synchronously so a broken input fails startup instead of serving
// nothing. Must be called before Run.
func (s *Server) Watch(ctx context.Context, source Source) error {
	watcher, err := NewWatcher(s.config, s.logger, s.metrics, s.otelMetrics, source, s.SetSnapshot)
	if err != nil {
		return err
	}
	if err := watcher.Rebuild(ctx); err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	s.watcher = watcher
	s.health = observability.NewHealthChecker(s.version, s.snapshotLoaded, watcher.LastError)
	return nil
}

// RegisterShutdownFunc registers a function to call during graceful
// shutdown. Must be called before Run.
func (s *Server) RegisterShutdownFunc(fn observability.ShutdownFunc) {
	s.shutdownFuncs = append(s.shutdownFuncs, fn)
}

// Run starts the HTTP server and blocks until a shutdown signal arrives
// or the listener fails.
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(s.logger, httpServer, s.config.Server.ShutdownTimeout)
	if s.watcher != nil {
		shutdown.RegisterShutdownFunc(s.watcher.Stop)
	}
	for _, fn := range s.shutdownFuncs {
		shutdown.RegisterShutdownFunc(fn)
	}

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Infof("Serving graph API on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- shutdown.WaitForShutdown()
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	case err := <-waitErr:
		return err
	}
}

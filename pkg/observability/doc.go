// Package observability provides structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// # Overview
//
// This package centralizes observability infrastructure for the snapshot
// server: JSON logging, metrics collection, health checks, graceful shutdown,
// and distributed tracing integration.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.Infof("Server listening on :%d", 8080)
//
// Context-aware logging:
//
//	logger.WithField("request_id", reqID).WithError(err).Error("Request failed")
//
// # Prometheus Metrics
//
// Initialize metrics:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.GraphBuildsTotal.WithLabelValues("watch", "success").Inc()
//	metrics.GraphBuildDuration.WithLabelValues("watch").Observe(0.123)
//
// Graph gauges:
//
//	metrics.GraphNodes.WithLabelValues("service").Set(float64(count))
//	metrics.GraphEdges.Set(float64(edges))
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(version, snapshotCheck, watchCheck)
//	status := checker.Check(ctx)
//
// # OpenTelemetry
//
// Initialize tracing:
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "coral",
//	}, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - pkg/httputil: Request logging middleware
package observability

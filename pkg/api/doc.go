// Package api provides the HTTP server that exposes proto dependency
// graphs to the frontend and to automation.
//
// # Overview
//
// This package implements the serving layer around a single immutable
// graph snapshot. The snapshot is built once at startup (or rebuilt by
// the filesystem watcher in watch mode) and swapped in atomically, so
// request handlers never observe a half-built graph and never take a
// lock.
//
// # Architecture
//
// The server is built on gorilla/mux and composed of three pieces:
//
//   - Server: routes, middleware chain, snapshot storage, lifecycle
//   - Watcher: fsnotify-driven rebuilds with debouncing and a digest cache
//   - buildCache: expirable LRU keyed by SHA-256 of the raw input
//
// Every request passes through the middleware chain in order: request ID
// assignment, structured logging, panic recovery, CORS, and Prometheus
// instrumentation. When OpenTelemetry is enabled the whole chain is
// additionally wrapped in otelhttp for traces.
//
// # API Endpoints
//
//	GET    /health        - Liveness probe
//	GET    /health/live   - Liveness probe
//	GET    /health/ready  - Readiness probe (snapshot + watcher status)
//	GET    /api/graph     - Current graph snapshot as JSON
//	POST   /api/diff      - Compare two graph snapshots
//	GET    /metrics       - Prometheus scrape endpoint (when enabled)
//	GET    /              - Static frontend assets (when configured)
//
// POST /api/diff accepts a JSON body with two serialized graph models:
//
//	{
//		"base": { "nodes": [...], "edges": [...], "packages": [...] },
//		"head": { "nodes": [...], "edges": [...], "packages": [...] }
//	}
//
// and responds with the added, removed, and modified definitions.
//
// # Usage Example
//
// Static serving of a prebuilt snapshot:
//
//	cfg, _ := config.LoadConfig()
//	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
//
//	server := api.NewServer(cfg, logger, version)
//	server.SetSnapshot(model)
//	log.Fatal(server.Run())
//
// Watch mode, rebuilding whenever the descriptor set changes on disk:
//
//	server := api.NewServer(cfg, logger, version)
//	if err := server.Watch(ctx, api.Source{DescriptorPath: "api.binpb"}); err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(server.Run())
//
// # Design Decisions
//
// Atomic Snapshot: The graph is served from an atomic.Pointer. Readers
// get whatever snapshot was current when their request started, writers
// replace the pointer wholesale. A failed rebuild leaves the previous
// snapshot serving.
//
// Debounced Rebuilds: Editors and build tools produce bursts of
// filesystem events for one logical save. The watcher coalesces a burst
// into a single rebuild after a quiet period.
//
// Digest Cache: Rebuilds hash the raw input first. Touching a file
// without changing its content, or flipping back to recently seen
// content, reuses the cached model instead of rebuilding.
//
// Probes Stay Green: A watcher failure degrades readiness rather than
// failing it. The last good snapshot keeps serving, which is preferable
// to being pulled out of rotation over a transient compile error.
//
// # Related Packages
//
//   - pkg/builder: Turns descriptor sets into graph models
//   - pkg/decoder: Descriptor set decoding and proto compilation
//   - pkg/diff: Snapshot comparison backing POST /api/diff
//   - pkg/httputil: Response helpers and middleware
//   - pkg/observability: Logging, metrics, health, shutdown
package api

// Package async provides safe concurrent execution primitives for background tasks.
//
// # Overview
//
// This package handles goroutine lifecycle management with panic recovery, timeout
// enforcement, and context cancellation.
//
// # Key Functions
//
// SafeGo: Execute function in goroutine with safety features
//
//	async.SafeGo(ctx, 30*time.Second, logger, "graph rebuild", func(ctx context.Context) error {
//		// Task code with automatic panic recovery and timeout
//		return rebuildSnapshot(ctx)
//	})
//
// # Features
//
// Panic Recovery: Captures panics with stack traces
// Timeout Enforcement: Per-task timeouts
// Context Cancellation: Respects context cancellation
//
// # Use Cases
//
// Watch-triggered graph rebuilds and other fire-and-forget background work
// where a crash must not take the server down.
//
// # Related Packages
//
//   - pkg/api: Uses SafeGo for watch-triggered snapshot rebuilds
package async

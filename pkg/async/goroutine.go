package async

import (
	"context"
	"time"

	"github.com/platinummonkey/coral/pkg/observability"
)

// SafeGo runs fn on its own goroutine with a timeout-bounded context,
// panic recovery, and error logging. Use it instead of a bare `go func()`
// for background work whose failure must not take the process down.
//
// The goroutine is fire-and-forget: errors and panics are logged through
// the supplied logger and never propagate to the caller.
//
// Example:
//
//	async.SafeGo(ctx, 30*time.Second, logger, "graph rebuild", func(ctx context.Context) error {
//	    return watcher.rebuild(ctx)
//	})
func SafeGo(parentCtx context.Context, timeout time.Duration, logger *observability.Logger, taskName string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(parentCtx, timeout)
		defer cancel()

		defer observability.RecoverPanic(logger, taskName)

		if err := fn(ctx); err != nil {
			logger.WithError(err).WithField("task", taskName).Error("background task failed")
		}
	}()
}

package observability

import (
	"runtime/debug"
)

// RecoverPanic recovers from a panic and logs it with structured logging
//
// Usage in defer statements:
//
//	func rebuildSnapshot() {
//	    defer observability.RecoverPanic(logger, "snapshot rebuild")
//	    // ... code that might panic
//	}
//
// If a panic occurs it is recovered and logged at Error level with the
// panic value, the full stack trace, and the supplied context string.
// After logging, the panic is NOT re-raised.
func RecoverPanic(logger *Logger, context string) {
	if r := recover(); r != nil {
		logger.WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			WithField("context", context).
			Error("PANIC recovered")
	}
}

// RecoverPanicWithCallback recovers from a panic, logs it, and executes a callback
//
// Usage when cleanup is needed after panic:
//
//	func worker() {
//	    defer observability.RecoverPanicWithCallback(logger, "watch loop", func() {
//	        close(resultCh)
//	    })
//	    // ... code that might panic
//	}
//
// The callback runs after logging, letting the caller close channels,
// release locks, or flag the failure to waiting goroutines.
func RecoverPanicWithCallback(logger *Logger, context string, callback func()) {
	if r := recover(); r != nil {
		logger.WithField("panic", r).
			WithField("stack", string(debug.Stack())).
			WithField("context", context).
			Error("PANIC recovered")
		if callback != nil {
			callback()
		}
	}
}

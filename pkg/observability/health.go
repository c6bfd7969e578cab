package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// SnapshotCheck reports whether a graph snapshot is currently loaded.
type SnapshotCheck func() bool

// WatchCheck reports the watcher's last rebuild error. A nil return means
// the watcher is running cleanly.
type WatchCheck func() error

// HealthChecker provides health check functionality
type HealthChecker struct {
	version  string
	snapshot SnapshotCheck
	watch    WatchCheck
}

// NewHealthChecker creates a new health checker. Either check may be nil
// when the corresponding subsystem is not running.
func NewHealthChecker(version string, snapshot SnapshotCheck, watch WatchCheck) *HealthChecker {
	return &HealthChecker{
		version:  version,
		snapshot: snapshot,
		watch:    watch,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"latency_ms,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Liveness returns a simple liveness probe (always returns 200 if server is running)
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness returns a readiness probe (checks all dependencies)
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")

	// Return 503 if unhealthy, 200 if healthy or degraded
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(status)
}

// Check performs a comprehensive health check
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Version:      h.version,
		Dependencies: make(map[string]DependencyStatus),
	}

	// Check graph snapshot
	if h.snapshot != nil {
		snapStatus := h.checkSnapshot()
		status.Dependencies["snapshot"] = snapStatus
		if snapStatus.Status == StatusDegraded && status.Status != StatusUnhealthy {
			status.Status = StatusDegraded
		}
	}

	// Check filesystem watcher
	if h.watch != nil {
		watchStatus := h.checkWatcher()
		status.Dependencies["watcher"] = watchStatus
		if watchStatus.Status == StatusDegraded && status.Status != StatusUnhealthy {
			// Watcher failures are recoverable - the last good snapshot keeps serving
			status.Status = StatusDegraded
		}
	}

	return status
}

// checkSnapshot verifies a graph snapshot has been built
func (h *HealthChecker) checkSnapshot() DependencyStatus {
	start := time.Now()
	status := DependencyStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	loaded := h.snapshot()
	status.Latency = time.Since(start)

	if !loaded {
		status.Status = StatusDegraded
		status.Message = "no graph snapshot loaded"
	}

	return status
}

// checkWatcher verifies the filesystem watcher's last rebuild succeeded
func (h *HealthChecker) checkWatcher() DependencyStatus {
	start := time.Now()
	status := DependencyStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	err := h.watch()
	status.Latency = time.Since(start)

	if err != nil {
		status.Status = StatusDegraded
		status.Message = err.Error()
	}

	return status
}

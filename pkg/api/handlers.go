package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/platinummonkey/coral/pkg/diff"
	"github.com/platinummonkey/coral/pkg/graph"
	"github.com/platinummonkey/coral/pkg/httputil"
)

// maxDiffBodyBytes caps POST /api/diff payloads. Two fully expanded graph
// snapshots fit comfortably under this.
const maxDiffBodyBytes = 32 << 20

var errInvalidDiffRequest = errors.New("invalid diff request")

// DiffRequest carries the two graph snapshots to compare.
type DiffRequest struct {
	Base *graph.Model `json:"base"`
	Head *graph.Model `json:"head"`
}

// handleLiveness handles GET /health and GET /health/live
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.health.Liveness(w, r)
}

// handleReadiness handles GET /health/ready
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.health.Readiness(w, r)
}

// handleGraph handles GET /api/graph
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	model := s.snapshot.Load()
	if model == nil {
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "no graph snapshot loaded")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, model)
}

// handleDiff handles POST /api/diff
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		s.recordDiff(r, 0, errInvalidDiffRequest)
		return
	}
	if req.Base == nil || req.Head == nil {
		httputil.WriteBadRequest(w, "base and head graphs are required")
		s.recordDiff(r, 0, errInvalidDiffRequest)
		return
	}

	start := time.Now()
	report := diff.Compute(req.Base, req.Head)
	s.recordDiff(r, time.Since(start), nil)

	httputil.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) recordDiff(r *http.Request, duration time.Duration, err error) {
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.DiffsTotal.WithLabelValues(status).Inc()
		if err == nil {
			s.metrics.DiffDuration.Observe(duration.Seconds())
		}
	}
	if s.otelMetrics != nil {
		s.otelMetrics.RecordDiff(r.Context(), duration, err)
	}
}

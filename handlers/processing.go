// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/pipeline"
	"github.com/danielhkuo/smartvote/simulate"
	"github.com/danielhkuo/smartvote/store"
)

// NewProcessingOperation returns the work behind each pipeline stage:
// every stage waits latency, "lock" closes voting and "publish" releases
// the results.
func NewProcessingOperation(st *store.Store, m *metrics.Metrics, latency time.Duration) pipeline.Operation {
	return simulate.After(latency, func(ctx context.Context, s pipeline.Stage) (struct{}, error) {
		switch s.ID {
		case "lock":
			return struct{}{}, advancePhase(ctx, st, m, models.PhaseVoting, models.PhaseCounting)
		case "publish":
			return struct{}{}, advancePhase(ctx, st, m, models.PhaseCounting, models.PhaseResultsPublished)
		}
		return struct{}{}, nil
	})
}

// advancePhase moves from → to when the election is in from. Any other
// phase is left alone so processing can also run on an election that was
// moved along by hand.
func advancePhase(ctx context.Context, st *store.Store, m *metrics.Metrics, from, to models.Phase) error {
	e, err := st.Election(ctx)
	if err != nil {
		return err
	}
	if e.Phase != from {
		return nil
	}
	if _, err := st.SetPhase(ctx, to); err != nil {
		return fmt.Errorf("moving election to %s: %w", to, err)
	}
	m.Phase(to)
	slog.Info("election phase changed", "from", from, "to", to, "by", "result processing")
	return nil
}

type ProcessingHandler struct {
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
}

func NewProcessingHandler(p *pipeline.Pipeline, m *metrics.Metrics) *ProcessingHandler {
	return &ProcessingHandler{pipeline: p, metrics: m}
}

// State handles GET /admin/processing
func (h *ProcessingHandler) State(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.pipeline.Snapshot())
}

// Advance handles POST /admin/processing/advance. The stage runs in the
// background; clients poll State until processing is false.
func (h *ProcessingHandler) Advance(w http.ResponseWriter, r *http.Request) {
	done, err := h.pipeline.AdvanceAsync(context.WithoutCancel(r.Context()))
	if errors.Is(err, pipeline.ErrBusy) {
		middleware.ErrorResponse(w, http.StatusConflict, "A stage is already processing")
		return
	}
	if err != nil {
		slog.Error("failed to start processing stage", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start stage")
		return
	}

	requestID := middleware.RequestID(r.Context())
	go func() {
		if err := <-done; err != nil {
			slog.Error("processing stage failed", "request_id", requestID, "error", err)
		}
		snap := h.pipeline.Snapshot()
		h.metrics.PipelineStage(snap.Index)
		slog.Info("processing stage finished",
			"request_id", requestID,
			"stage", snap.Stage.ID,
			"finalized", snap.Finalized,
		)
	}()

	middleware.JSONResponse(w, http.StatusAccepted, h.pipeline.Snapshot())
}

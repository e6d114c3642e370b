// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/pipeline"
	"github.com/danielhkuo/smartvote/testutil"
)

// waitIdle polls the pipeline until the running stage has finished.
func waitIdle(t *testing.T, p *pipeline.Pipeline) pipeline.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := p.Snapshot(); !s.Processing {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Timed out waiting for processing stage")
	return pipeline.Snapshot{}
}

func TestProcessingOperation_Phases(t *testing.T) {
	st := testutil.SetupTestStore(t)
	m := testutil.NewTestMetrics(t)
	p := pipeline.New(NewProcessingOperation(st, m, 0))
	ctx := context.Background()

	if err := p.Advance(ctx); err != nil {
		t.Fatalf("lock stage failed: %v", err)
	}
	e, _ := st.Election(ctx)
	if e.Phase != models.PhaseCounting {
		t.Fatalf("Expected counting after lock, got %s", e.Phase)
	}

	for i := 0; i < 4; i++ {
		if err := p.Advance(ctx); err != nil {
			t.Fatalf("advance %d failed: %v", i, err)
		}
	}
	e, _ = st.Election(ctx)
	if e.Phase != models.PhaseResultsPublished {
		t.Errorf("Expected results-published after publish, got %s", e.Phase)
	}
	if !p.Snapshot().Finalized {
		t.Error("Expected pipeline to be finalized")
	}
}

func TestProcessingOperation_ManualPhase(t *testing.T) {
	st := testutil.SetupTestStore(t)
	testutil.SetTestPhase(t, st, models.PhaseCampaigning)
	p := pipeline.New(NewProcessingOperation(st, testutil.NewTestMetrics(t), 0))

	if err := p.Advance(context.Background()); err != nil {
		t.Fatalf("lock stage failed: %v", err)
	}
	e, _ := st.Election(context.Background())
	if e.Phase != models.PhaseCampaigning {
		t.Errorf("Expected phase to be left alone, got %s", e.Phase)
	}
}

func TestProcessingHandler(t *testing.T) {
	st := testutil.SetupTestStore(t)
	m := testutil.NewTestMetrics(t)
	p := pipeline.New(NewProcessingOperation(st, m, 0))
	handler := NewProcessingHandler(p, m)

	req := testutil.MakeRequest("GET", "/admin/processing", nil, nil)
	w := httptest.NewRecorder()
	handler.State(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var snap pipeline.Snapshot
	testutil.AssertJSON(t, w, &snap)
	if snap.Index != 0 || snap.Processing || len(snap.Stages) != 5 {
		t.Fatalf("Unexpected initial state: %+v", snap)
	}

	for i := 0; i < 6; i++ {
		req := testutil.MakeRequest("POST", "/admin/processing/advance", nil, nil)
		w := httptest.NewRecorder()
		handler.Advance(w, req)
		testutil.AssertStatus(t, w, http.StatusAccepted)
		waitIdle(t, p)
	}

	snap = p.Snapshot()
	if snap.Index != 4 || !snap.Complete || !snap.Finalized {
		t.Errorf("Expected finalized at last stage, got %+v", snap)
	}
	completions := 0
	for _, e := range snap.Log {
		if strings.HasPrefix(e.Message, "WORKFLOW COMPLETE") {
			completions++
		}
	}
	if completions != 2 {
		t.Errorf("Expected one completion line per terminal advance, got %d", completions)
	}
}

func TestProcessingHandler_Busy(t *testing.T) {
	st := testutil.SetupTestStore(t)
	m := testutil.NewTestMetrics(t)
	p := pipeline.New(NewProcessingOperation(st, m, 200*time.Millisecond))
	handler := NewProcessingHandler(p, m)

	req := testutil.MakeRequest("POST", "/admin/processing/advance", nil, nil)
	w := httptest.NewRecorder()
	handler.Advance(w, req)
	testutil.AssertStatus(t, w, http.StatusAccepted)

	req = testutil.MakeRequest("POST", "/admin/processing/advance", nil, nil)
	w = httptest.NewRecorder()
	handler.Advance(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	if snap := waitIdle(t, p); snap.Index != 1 {
		t.Errorf("Expected a single stage to complete, got index %d", snap.Index)
	}
}

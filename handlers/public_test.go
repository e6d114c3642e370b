// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/testutil"
)

func TestPublicCandidates(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewPublicHandler(st)
	testutil.AddTestCandidate(t, st, "p2", "Kiran Rao")

	tests := []struct {
		query         string
		expectedCount int
	}{
		{"", 2},
		{"?search=priya", 1},
		{"?search=SCIENCE", 1},
		{"?search=kiran", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/public/candidates"+tt.query, nil, nil)
			w := httptest.NewRecorder()
			handler.Candidates(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var candidates []models.PublicCandidate
			testutil.AssertJSON(t, w, &candidates)
			if len(candidates) != tt.expectedCount {
				t.Fatalf("Expected %d candidates, got %d", tt.expectedCount, len(candidates))
			}
			for _, c := range candidates {
				if c.PostName != "President" {
					t.Errorf("Expected post name President, got %q", c.PostName)
				}
			}
		})
	}
}

func TestPublicCandidates_DanglingPost(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewPublicHandler(st)
	if err := st.DeletePost(context.Background(), "p1"); err != nil {
		t.Fatalf("Failed to delete post: %v", err)
	}

	req := testutil.MakeRequest("GET", "/public/candidates", nil, nil)
	w := httptest.NewRecorder()
	handler.Candidates(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var candidates []models.PublicCandidate
	testutil.AssertJSON(t, w, &candidates)
	if len(candidates) != 2 || candidates[0].PostName != "" {
		t.Errorf("Expected candidates with empty post name, got %+v", candidates)
	}
}

func TestPublicResults(t *testing.T) {
	tests := []struct {
		phase          models.Phase
		expectedStatus int
	}{
		{models.PhaseVoting, http.StatusForbidden},
		{models.PhaseCounting, http.StatusForbidden},
		{models.PhaseResultsPublished, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			st := testutil.SetupTestStore(t)
			testutil.SetTestPhase(t, st, tt.phase)
			handler := NewPublicHandler(st)

			req := testutil.MakeRequest("GET", "/public/results", nil, nil)
			w := httptest.NewRecorder()
			handler.Results(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				var errResp models.ErrorResponse
				testutil.AssertJSON(t, w, &errResp)
				if errResp.Message != msgResultsSealed {
					t.Errorf("Expected sealed message, got %q", errResp.Message)
				}
				return
			}

			var resp models.PublicResultsResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Winners) != 3 {
				t.Fatalf("Expected a winner row per post, got %d", len(resp.Winners))
			}
			if resp.Winners[0].Winner == nil || resp.Winners[0].Winner.Name != "Rohan Singh" {
				t.Errorf("Expected Rohan Singh to win President, got %+v", resp.Winners[0].Winner)
			}
			if resp.Winners[1].Winner != nil {
				t.Errorf("Expected no winner for General Secretary, got %+v", resp.Winners[1].Winner)
			}
			if resp.TotalVotes != 1000 || resp.VotesByCandidate["c2"] != 480 {
				t.Errorf("Unexpected vote totals: %d %v", resp.TotalVotes, resp.VotesByCandidate)
			}
		})
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/simulate"
	"github.com/danielhkuo/smartvote/store"
	"github.com/danielhkuo/smartvote/testutil"
)

func newTestAdminHandler(t *testing.T) (*AdminHandler, *store.Store) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	return NewAdminHandler(st, testutil.NewTestMetrics(t), simulate.NoLatencies()), st
}

func TestGetElection(t *testing.T) {
	handler, _ := newTestAdminHandler(t)

	req := testutil.MakeRequest("GET", "/admin/election", nil, nil)
	w := httptest.NewRecorder()
	handler.GetElection(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var e models.ElectionSetup
	testutil.AssertJSON(t, w, &e)
	if e.Name != "University Student Council Election" {
		t.Errorf("Expected seeded election name, got %q", e.Name)
	}
	if e.Phase != models.PhaseVoting || !e.ElectionActive || e.ResultsPublished {
		t.Errorf("Unexpected phase flags: %+v", e)
	}
}

func TestUpdateElection(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid update",
			body:           models.UpdateElectionRequest{Name: "Council Election", AcademicYear: "2026-27"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing name",
			body:           map[string]string{"academic_year": "2026-27"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "whitespace name",
			body:           models.UpdateElectionRequest{Name: "   ", AcademicYear: "2026-27"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, st := newTestAdminHandler(t)

			req := testutil.MakeRequest("PUT", "/admin/election", tt.body, nil)
			w := httptest.NewRecorder()
			handler.UpdateElection(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			e, err := st.Election(context.Background())
			if err != nil {
				t.Fatalf("Failed to read election: %v", err)
			}
			if tt.expectedStatus == http.StatusOK && e.Name != "Council Election" {
				t.Errorf("Expected name to be saved, got %q", e.Name)
			}
			if tt.expectedStatus != http.StatusOK && e.Name != "University Student Council Election" {
				t.Errorf("Expected name unchanged, got %q", e.Name)
			}
		})
	}
}

func TestSetPhase(t *testing.T) {
	tests := []struct {
		name           string
		start          models.Phase
		to             models.Phase
		expectedStatus int
	}{
		{"advance one step", models.PhaseVoting, models.PhaseCounting, http.StatusOK},
		{"open nominations", models.PhasePreElection, models.PhaseNomination, http.StatusOK},
		{"skip a phase", models.PhaseNomination, models.PhaseVoting, http.StatusConflict},
		{"go backwards", models.PhaseCounting, models.PhaseVoting, http.StatusConflict},
		{"unknown phase", models.PhaseVoting, models.Phase("archived"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, st := newTestAdminHandler(t)
			testutil.SetTestPhase(t, st, tt.start)

			req := testutil.MakeRequest("POST", "/admin/election/phase", models.SetPhaseRequest{Phase: tt.to}, nil)
			w := httptest.NewRecorder()
			handler.SetPhase(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			e, _ := st.Election(context.Background())
			want := tt.start
			if tt.expectedStatus == http.StatusOK {
				want = tt.to

				var resp models.PhaseResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.From != tt.start {
					t.Errorf("Expected from %s, got %s", tt.start, resp.From)
				}
			}
			if e.Phase != want {
				t.Errorf("Expected phase %s, got %s", want, e.Phase)
			}
		})
	}
}

func TestToggleVoting(t *testing.T) {
	tests := []struct {
		start          models.Phase
		expectedStatus int
		expectedPhase  models.Phase
	}{
		{models.PhaseCampaigning, http.StatusOK, models.PhaseVoting},
		{models.PhaseVoting, http.StatusOK, models.PhaseCounting},
		{models.PhaseNomination, http.StatusConflict, models.PhaseNomination},
		{models.PhaseResultsPublished, http.StatusConflict, models.PhaseResultsPublished},
	}

	for _, tt := range tests {
		t.Run(string(tt.start), func(t *testing.T) {
			handler, st := newTestAdminHandler(t)
			testutil.SetTestPhase(t, st, tt.start)

			req := testutil.MakeRequest("POST", "/admin/election/toggle", nil, nil)
			w := httptest.NewRecorder()
			handler.ToggleVoting(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			e, _ := st.Election(context.Background())
			if e.Phase != tt.expectedPhase {
				t.Errorf("Expected phase %s, got %s", tt.expectedPhase, e.Phase)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	handler, st := newTestAdminHandler(t)
	testutil.AddTestCandidate(t, st, "p2", "Kiran Rao")

	req := testutil.MakeRequest("GET", "/admin/dashboard", nil, nil)
	w := httptest.NewRecorder()
	handler.Dashboard(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalVoters != 2 {
		t.Errorf("Expected 2 voters, got %d", resp.TotalVoters)
	}
	if resp.ApprovedCandidates != 2 || resp.PendingCandidates != 1 {
		t.Errorf("Expected 2 approved and 1 pending, got %d and %d",
			resp.ApprovedCandidates, resp.PendingCandidates)
	}
}

func TestLiveDashboard(t *testing.T) {
	handler, st := newTestAdminHandler(t)

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	handler.now = func() time.Time { return now }

	get := func() models.LiveDashboardResponse {
		t.Helper()
		req := testutil.MakeRequest("GET", "/admin/live", nil, nil)
		w := httptest.NewRecorder()
		handler.LiveDashboard(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.LiveDashboardResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	resp := get()
	if resp.TotalVoters != 2 || resp.VotesCast != 1 || resp.TurnoutPct != 50 {
		t.Errorf("Unexpected counts: %+v", resp)
	}
	if resp.Turnout["Engineering"] != 68 {
		t.Errorf("Expected department turnout from results, got %v", resp.Turnout)
	}
	if resp.UpdatedAgo != "now" {
		t.Errorf("Expected updated now, got %q", resp.UpdatedAgo)
	}

	// Unchanged counts keep the first timestamp.
	now = start.Add(2 * time.Minute)
	resp = get()
	if !resp.UpdatedAt.Equal(start) {
		t.Errorf("Expected updated_at %v, got %v", start, resp.UpdatedAt)
	}
	if resp.UpdatedAgo != "2 minutes ago" {
		t.Errorf("Expected 2 minutes ago, got %q", resp.UpdatedAgo)
	}

	if _, err := st.MarkVoted(context.Background(), "v1"); err != nil {
		t.Fatalf("Failed to mark voted: %v", err)
	}
	resp = get()
	if resp.TurnoutPct != 100 || !resp.UpdatedAt.Equal(now) {
		t.Errorf("Expected fresh 100%% turnout, got %d at %v", resp.TurnoutPct, resp.UpdatedAt)
	}
}

func TestTurnoutPercent(t *testing.T) {
	tests := []struct {
		total, voted, want int
	}{
		{0, 0, 0},
		{2, 1, 50},
		{3, 1, 33},
		{3, 2, 67},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := turnoutPercent(tt.total, tt.voted); got != tt.want {
			t.Errorf("turnoutPercent(%d, %d) = %d, want %d", tt.total, tt.voted, got, tt.want)
		}
	}
}

func TestReports(t *testing.T) {
	handler, _ := newTestAdminHandler(t)

	req := testutil.MakeRequest("GET", "/admin/reports", nil, nil)
	w := httptest.NewRecorder()
	handler.Reports(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ReportResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalVotes != 1000 {
		t.Errorf("Expected 1000 total votes, got %d", resp.TotalVotes)
	}
	if resp.TotalVotesText != "1,000" {
		t.Errorf("Expected formatted total, got %q", resp.TotalVotesText)
	}
	if resp.Results.WinnersByPost["p1"] != "c1" {
		t.Errorf("Expected c1 to win p1, got %v", resp.Results.WinnersByPost)
	}
}

func TestAddPost(t *testing.T) {
	tests := []struct {
		name           string
		body           models.AddPostRequest
		expectedStatus int
		expectedPosts  int
	}{
		{"new post", models.AddPostRequest{Name: "Cultural Secretary", Seats: 1}, http.StatusCreated, 4},
		{"empty name", models.AddPostRequest{Name: "  "}, http.StatusBadRequest, 3},
		{"duplicate name", models.AddPostRequest{Name: "president"}, http.StatusConflict, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, st := newTestAdminHandler(t)

			req := testutil.MakeRequest("POST", "/admin/posts", tt.body, nil)
			w := httptest.NewRecorder()
			handler.AddPost(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			posts, _ := st.Posts(context.Background())
			if len(posts) != tt.expectedPosts {
				t.Errorf("Expected %d posts, got %d", tt.expectedPosts, len(posts))
			}
		})
	}
}

func TestDeletePost(t *testing.T) {
	handler, st := newTestAdminHandler(t)

	req := testutil.MakeRequest("DELETE", "/admin/posts/p1", nil, nil)
	req.SetPathValue("id", "p1")
	w := httptest.NewRecorder()
	handler.DeletePost(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	// candidates of the deleted post survive
	if _, err := st.Candidate(context.Background(), "c1"); err != nil {
		t.Errorf("Expected c1 to remain, got %v", err)
	}

	req = testutil.MakeRequest("DELETE", "/admin/posts/p1", nil, nil)
	req.SetPathValue("id", "p1")
	w = httptest.NewRecorder()
	handler.DeletePost(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestListVoters_Search(t *testing.T) {
	handler, _ := newTestAdminHandler(t)

	req := testutil.MakeRequest("GET", "/admin/voters?search=rahul", nil, nil)
	w := httptest.NewRecorder()
	handler.ListVoters(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var voters []models.Voter
	testutil.AssertJSON(t, w, &voters)
	if len(voters) != 1 || voters[0].ID != "v2" {
		t.Errorf("Expected only v2, got %+v", voters)
	}
}

func TestImportVoters(t *testing.T) {
	handler, _ := newTestAdminHandler(t)

	req := testutil.MakeRequest("POST", "/admin/voters/import", nil, nil)
	w := httptest.NewRecorder()
	handler.ImportVoters(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.ImportVotersResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Imported) != importBatch || resp.Total != 2+importBatch {
		t.Fatalf("Expected %d imported of %d total, got %d of %d",
			importBatch, 2+importBatch, len(resp.Imported), resp.Total)
	}
	for i, v := range resp.Imported {
		if v.ID == "" || v.HasVoted {
			t.Errorf("Imported voter %d: %+v", i, v)
		}
		if v.Department != importDepartments[i%len(importDepartments)] {
			t.Errorf("Imported voter %d has department %q", i, v.Department)
		}
	}
}

func TestDeleteVoter(t *testing.T) {
	handler, st := newTestAdminHandler(t)

	del := func(id string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("DELETE", "/admin/voters/"+id, nil, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.DeleteVoter(w, req)
		return w
	}

	testutil.AssertStatus(t, del("v1"), http.StatusNoContent)
	testutil.AssertStatus(t, del("v1"), http.StatusNotFound)

	req := testutil.MakeRequest("POST", "/admin/voters/finalize", nil, nil)
	w := httptest.NewRecorder()
	handler.FinalizeVoters(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertStatus(t, del("v2"), http.StatusConflict)
	if _, err := st.Voter(context.Background(), "v2"); err != nil {
		t.Errorf("Expected v2 to remain after refused delete: %v", err)
	}
}

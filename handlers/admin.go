// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/simulate"
	"github.com/danielhkuo/smartvote/store"
)

// importBatch is the number of synthetic voters a simulated import adds.
const importBatch = 5

var importDepartments = []string{"Engineering", "Science", "Arts"}

type AdminHandler struct {
	st      *store.Store
	metrics *metrics.Metrics
	lat     simulate.Latencies
	now     func() time.Time

	// live dashboard change tracking
	liveMu      sync.Mutex
	liveTotal   int
	liveVoted   int
	liveChanged time.Time
}

func NewAdminHandler(st *store.Store, m *metrics.Metrics, lat simulate.Latencies) *AdminHandler {
	return &AdminHandler{st: st, metrics: m, lat: lat, now: time.Now, liveTotal: -1}
}

// GetElection handles GET /admin/election
func (h *AdminHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	e, err := h.st.Election(r.Context())
	if err != nil {
		storeError(w, "query election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// UpdateElection handles PUT /admin/election
func (h *AdminHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateElectionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	if err := simulate.Sleep(r.Context(), h.lat.SettingsSave); err != nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Request cancelled")
		return
	}

	e, err := h.st.UpdateElection(r.Context(), req.Name, req.AcademicYear)
	if errors.Is(err, store.ErrEmptyName) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if err != nil {
		storeError(w, "update election", err)
		return
	}

	slog.Info("election settings saved", "name", e.Name, "academic_year", e.AcademicYear)
	middleware.JSONResponse(w, http.StatusOK, e)
}

// SetPhase handles POST /admin/election/phase
func (h *AdminHandler) SetPhase(w http.ResponseWriter, r *http.Request) {
	var req models.SetPhaseRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if !req.Phase.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown phase %q", req.Phase))
		return
	}
	h.transition(w, r, req.Phase)
}

// ToggleVoting handles POST /admin/election/toggle. It opens voting from
// campaigning and closes it while voting.
func (h *AdminHandler) ToggleVoting(w http.ResponseWriter, r *http.Request) {
	e, err := h.st.Election(r.Context())
	if err != nil {
		storeError(w, "query election", err)
		return
	}

	var to models.Phase
	switch e.Phase {
	case models.PhaseCampaigning:
		to = models.PhaseVoting
	case models.PhaseVoting:
		to = models.PhaseCounting
	default:
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("Voting cannot be toggled during %s", e.Phase))
		return
	}
	h.transition(w, r, to)
}

func (h *AdminHandler) transition(w http.ResponseWriter, r *http.Request, to models.Phase) {
	before, err := h.st.Election(r.Context())
	if err != nil {
		storeError(w, "query election", err)
		return
	}

	e, err := h.st.SetPhase(r.Context(), to)
	if errors.Is(err, models.ErrInvalidTransition) {
		slog.Warn("phase change refused", "from", before.Phase, "to", to)
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		storeError(w, "set phase", err)
		return
	}

	h.metrics.Phase(e.Phase)
	slog.Info("election phase changed", "from", before.Phase, "to", e.Phase)
	middleware.JSONResponse(w, http.StatusOK, models.PhaseResponse{Election: e, From: before.Phase})
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.st.Election(ctx)
	if err != nil {
		storeError(w, "query election", err)
		return
	}
	total, _, err := h.st.Turnout(ctx)
	if err != nil {
		storeError(w, "count voters", err)
		return
	}
	counts, err := h.st.CandidateCounts(ctx)
	if err != nil {
		storeError(w, "count candidates", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		Election:           e,
		TotalVoters:        total,
		ApprovedCandidates: counts[models.CandidateApproved],
		PendingCandidates:  counts[models.CandidatePending],
	})
}

// LiveDashboard handles GET /admin/live
func (h *AdminHandler) LiveDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.st.Election(ctx)
	if err != nil {
		storeError(w, "query election", err)
		return
	}
	total, voted, err := h.st.Turnout(ctx)
	if err != nil {
		storeError(w, "count voters", err)
		return
	}
	res, err := h.st.Results(ctx)
	if err != nil {
		storeError(w, "query results", err)
		return
	}

	updated := h.observe(total, voted)
	h.metrics.Turnout(total, voted)

	middleware.JSONResponse(w, http.StatusOK, models.LiveDashboardResponse{
		Election:    e,
		TotalVoters: total,
		VotesCast:   voted,
		TurnoutPct:  turnoutPercent(total, voted),
		Turnout:     res.TurnoutByDepartment,
		UpdatedAt:   updated,
		UpdatedAgo:  humanize.RelTime(updated, h.now(), "ago", "from now"),
	})
}

// observe records the latest counts and returns when they last changed.
func (h *AdminHandler) observe(total, voted int) time.Time {
	h.liveMu.Lock()
	defer h.liveMu.Unlock()
	if total != h.liveTotal || voted != h.liveVoted {
		h.liveTotal, h.liveVoted = total, voted
		h.liveChanged = h.now()
	}
	return h.liveChanged
}

func turnoutPercent(total, voted int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(voted) * 100 / float64(total)))
}

// Reports handles GET /admin/reports
func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.st.Election(ctx)
	if err != nil {
		storeError(w, "query election", err)
		return
	}
	res, err := h.st.Results(ctx)
	if err != nil {
		storeError(w, "query results", err)
		return
	}
	total := store.TotalVotes(res)

	middleware.JSONResponse(w, http.StatusOK, models.ReportResponse{
		Election:       e,
		Results:        res,
		TotalVotes:     total,
		TotalVotesText: humanize.Comma(int64(total)),
	})
}

// ListPosts handles GET /admin/posts
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.st.Posts(r.Context())
	if err != nil {
		storeError(w, "query posts", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, posts)
}

// AddPost handles POST /admin/posts
func (h *AdminHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	var req models.AddPostRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	post, err := h.st.AddPost(r.Context(), req.Name, req.Seats)
	switch {
	case errors.Is(err, store.ErrEmptyName):
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	case errors.Is(err, store.ErrDuplicatePost):
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("A post named %q already exists", strings.TrimSpace(req.Name)))
		return
	case err != nil:
		storeError(w, "add post", err)
		return
	}

	slog.Info("post added", "post_id", post.ID, "name", post.Name)
	middleware.JSONResponse(w, http.StatusCreated, models.AddPostResponse{Post: post})
}

// DeletePost handles DELETE /admin/posts/{id}. Candidates for the post
// are kept.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "post_id is required")
		return
	}

	if err := h.st.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
			return
		}
		storeError(w, "delete post", err)
		return
	}

	slog.Info("post deleted", "post_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListVoters handles GET /admin/voters?search=
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.st.Voters(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		storeError(w, "query voters", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}

// ImportVoters handles POST /admin/voters/import. It adds a batch of
// synthetic voters after the simulated upload delay.
func (h *AdminHandler) ImportVoters(w http.ResponseWriter, r *http.Request) {
	if err := simulate.Sleep(r.Context(), h.lat.VoterImport); err != nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Request cancelled")
		return
	}

	batch := make([]models.Voter, importBatch)
	for i := range batch {
		batch[i] = models.Voter{
			Name:       fmt.Sprintf("Imported Student %d", i+1),
			Department: importDepartments[i%len(importDepartments)],
			Year:       "2024",
		}
	}

	added, err := h.st.AddVoters(r.Context(), batch)
	if err != nil {
		storeError(w, "import voters", err)
		return
	}
	total, _, err := h.st.Turnout(r.Context())
	if err != nil {
		storeError(w, "count voters", err)
		return
	}

	slog.Info("voters imported", "count", len(added), "total", total)
	middleware.JSONResponse(w, http.StatusCreated, models.ImportVotersResponse{Imported: added, Total: total})
}

// DeleteVoter handles DELETE /admin/voters/{id}
func (h *AdminHandler) DeleteVoter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	err := h.st.DeleteVoter(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrVoterListFinalized):
		middleware.ErrorResponse(w, http.StatusConflict, "Voter list is finalized")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case err != nil:
		storeError(w, "delete voter", err)
		return
	}

	slog.Info("voter deleted", "voter_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// FinalizeVoters handles POST /admin/voters/finalize
func (h *AdminHandler) FinalizeVoters(w http.ResponseWriter, r *http.Request) {
	if err := h.st.FinalizeVoters(r.Context()); err != nil {
		storeError(w, "finalize voters", err)
		return
	}
	slog.Info("voter list finalized")
	middleware.JSONResponse(w, http.StatusOK, models.FinalizeVotersResponse{Finalized: true})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/store"
)

const noSelectionLabel = "No candidate selected."

type VotingHandler struct {
	st      *store.Store
	metrics *metrics.Metrics
}

func NewVotingHandler(st *store.Store, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{st: st, metrics: m}
}

// voter resolves the session voter and checks that voting is open. It
// writes the error response itself.
func (h *VotingHandler) voter(w http.ResponseWriter, r *http.Request) (models.Voter, string, bool) {
	token := middleware.SessionToken(r)
	v, err := h.st.CurrentVoter(r.Context(), token)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgLoginRequired)
		return models.Voter{}, "", false
	}
	if err != nil {
		storeError(w, "query session", err)
		return models.Voter{}, "", false
	}

	e, err := h.st.Election(r.Context())
	if err != nil {
		storeError(w, "query election", err)
		return models.Voter{}, "", false
	}
	if e.Phase != models.PhaseVoting {
		middleware.ErrorResponse(w, http.StatusConflict, msgElectionInactive)
		return models.Voter{}, "", false
	}
	return v, token, true
}

// Ballot handles GET /voter/ballot
func (h *VotingHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	v, token, ok := h.voter(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	posts, err := h.st.Posts(ctx)
	if err != nil {
		storeError(w, "query posts", err)
		return
	}
	approved, err := h.st.Candidates(ctx, store.CandidateFilter{Status: models.CandidateApproved})
	if err != nil {
		storeError(w, "query candidates", err)
		return
	}
	selections, err := h.st.Selections(ctx, token)
	if err != nil {
		storeError(w, "query selections", err)
		return
	}

	byPost := make(map[string][]models.Candidate, len(posts))
	for _, c := range approved {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	ballot := make([]models.BallotPost, 0, len(posts))
	for _, p := range posts {
		candidates := byPost[p.ID]
		if candidates == nil {
			candidates = []models.Candidate{}
		}
		ballot = append(ballot, models.BallotPost{
			Post:       p,
			Candidates: candidates,
			Selected:   selections[p.ID],
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{Voter: v, Posts: ballot})
}

// Select handles PUT /voter/ballot/selections. One candidate per post; a
// new choice replaces the previous one.
func (h *VotingHandler) Select(w http.ResponseWriter, r *http.Request) {
	_, token, ok := h.voter(w, r)
	if !ok {
		return
	}

	var req models.SelectCandidateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	ctx := r.Context()

	if _, err := h.st.Post(ctx, req.PostID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
			return
		}
		storeError(w, "query post", err)
		return
	}
	c, err := h.st.Candidate(ctx, req.CandidateID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && (c.Status != models.CandidateApproved || c.PostID != req.PostID)) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate is not on the ballot for this post")
		return
	}
	if err != nil {
		storeError(w, "query candidate", err)
		return
	}

	if err := h.st.Select(ctx, token, req.PostID, req.CandidateID); err != nil {
		storeError(w, "save selection", err)
		return
	}
	selections, err := h.st.Selections(ctx, token)
	if err != nil {
		storeError(w, "query selections", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, selections)
}

// ClearSelection handles DELETE /voter/ballot/selections/{post_id}
func (h *VotingHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	_, token, ok := h.voter(w, r)
	if !ok {
		return
	}
	if err := h.st.ClearSelection(r.Context(), token, r.PathValue("post_id")); err != nil {
		storeError(w, "clear selection", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Review handles GET /voter/review. Every post gets a row; posts without a
// selection are labelled as such.
func (h *VotingHandler) Review(w http.ResponseWriter, r *http.Request) {
	v, token, ok := h.voter(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	posts, err := h.st.Posts(ctx)
	if err != nil {
		storeError(w, "query posts", err)
		return
	}
	selections, err := h.st.Selections(ctx, token)
	if err != nil {
		storeError(w, "query selections", err)
		return
	}
	all, err := h.st.Candidates(ctx, store.CandidateFilter{})
	if err != nil {
		storeError(w, "query candidates", err)
		return
	}
	byID := make(map[string]models.Candidate, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	rows := make([]models.ReviewRow, 0, len(posts))
	for _, p := range posts {
		row := models.ReviewRow{Post: p, Label: noSelectionLabel}
		if c, found := byID[selections[p.ID]]; found {
			row.Candidate = &c
			row.Label = c.Name
		}
		rows = append(rows, row)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ReviewResponse{Voter: v, Rows: rows})
}

// Confirm handles POST /voter/confirm. Only the has-voted flag of the
// session voter is written; the selections themselves are not recorded.
func (h *VotingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	v, _, ok := h.voter(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	changed, err := h.st.MarkVoted(ctx, v.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// placeholder voters are not on the roll
		slog.Warn("vote confirmed for unregistered voter", "voter_id", v.ID)
	case err != nil:
		storeError(w, "mark voted", err)
		return
	case changed:
		h.metrics.BallotConfirmed()
		if total, voted, err := h.st.Turnout(ctx); err == nil {
			h.metrics.Turnout(total, voted)
		}
		slog.Info("vote confirmed", "voter_id", v.ID)
	default:
		slog.Info("vote confirmed again", "voter_id", v.ID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ConfirmResponse{
		VoterID: v.ID,
		Message: "Thank you for voting! Your vote has been securely recorded and will be included in the final tally.",
		Next:    "/voter/thank-you",
	})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/store"
)

type PublicHandler struct {
	st *store.Store
}

func NewPublicHandler(st *store.Store) *PublicHandler {
	return &PublicHandler{st: st}
}

// Candidates handles GET /public/candidates?search=. Only approved
// candidates are listed; a dangling post reference gets an empty post name.
func (h *PublicHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidates, err := h.st.Candidates(ctx, store.CandidateFilter{
		Status: models.CandidateApproved,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		storeError(w, "query candidates", err)
		return
	}
	names, err := h.postNames(r)
	if err != nil {
		storeError(w, "query posts", err)
		return
	}

	out := make([]models.PublicCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.PublicCandidate{Candidate: c, PostName: names[c.PostID]})
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

func (h *PublicHandler) postNames(r *http.Request) (map[string]string, error) {
	posts, err := h.st.Posts(r.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(posts))
	for _, p := range posts {
		names[p.ID] = p.Name
	}
	return names, nil
}

// Results handles GET /public/results. Results stay sealed until the
// election reaches results-published.
func (h *PublicHandler) Results(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.st.Election(ctx)
	if err != nil {
		storeError(w, "query election", err)
		return
	}
	if !e.ResultsPublished {
		middleware.ErrorResponse(w, http.StatusForbidden, msgResultsSealed)
		return
	}

	res, err := h.st.Results(ctx)
	if err != nil {
		storeError(w, "query results", err)
		return
	}
	posts, err := h.st.Posts(ctx)
	if err != nil {
		storeError(w, "query posts", err)
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

	winners := make([]models.PostWinner, 0, len(posts))
	for _, p := range posts {
		pw := models.PostWinner{Post: p}
		if c, ok := byID[res.WinnersByPost[p.ID]]; ok {
			pw.Winner = &c
		}
		winners = append(winners, pw)
	}

	middleware.JSONResponse(w, http.StatusOK, models.PublicResultsResponse{
		Election:            e,
		Winners:             winners,
		VotesByCandidate:    res.VotesByCandidate,
		TurnoutByDepartment: res.TurnoutByDepartment,
		TotalVotes:          store.TotalVotes(res),
	})
}

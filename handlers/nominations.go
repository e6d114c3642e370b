// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/store"
)

type NominationHandler struct {
	st      *store.Store
	metrics *metrics.Metrics
}

func NewNominationHandler(st *store.Store, m *metrics.Metrics) *NominationHandler {
	return &NominationHandler{st: st, metrics: m}
}

// Submit handles POST /candidate/nominations. The nomination is stored as
// pending; there are no duplicate or eligibility checks.
func (h *NominationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.NominationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	if _, err := h.st.Post(r.Context(), req.PostID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown post")
			return
		}
		storeError(w, "query post", err)
		return
	}

	c, err := h.st.AddCandidate(r.Context(), models.Candidate{
		Name:       strings.TrimSpace(req.Name),
		PostID:     req.PostID,
		Department: strings.TrimSpace(req.Department),
		Year:       strings.TrimSpace(req.Year),
		Manifesto:  strings.TrimSpace(req.Manifesto),
	})
	if err != nil {
		storeError(w, "add candidate", err)
		return
	}

	h.metrics.Nomination()
	slog.Info("nomination submitted", "candidate_id", c.ID, "post_id", c.PostID)

	middleware.JSONResponse(w, http.StatusCreated, models.NominationResponse{
		Candidate: c,
		Message:   "Nomination submitted - pending admin verification.",
	})
}

// List handles GET /admin/nominations?status=&search=. The status filter
// defaults to pending; "all" lists every nomination.
func (h *NominationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status == "" {
		status = models.CandidatePending
	}
	switch status {
	case store.StatusAll, models.CandidatePending, models.CandidateApproved, models.CandidateRejected:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
		return
	}

	candidates, err := h.st.Candidates(r.Context(), store.CandidateFilter{
		Status: status,
		Search: q.Get("search"),
		PostID: q.Get("post_id"),
	})
	if err != nil {
		storeError(w, "query candidates", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Approve handles POST /admin/nominations/{id}/approve
func (h *NominationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.CandidateApproved, "")
}

// Reject handles POST /admin/nominations/{id}/reject. A reason is required.
func (h *NominationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewCandidateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	h.review(w, r, models.CandidateRejected, req.Reason)
}

func (h *NominationHandler) review(w http.ResponseWriter, r *http.Request, status, reason string) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	reviewer := reviewerName(r, h.st)
	c, err := h.st.ReviewCandidate(r.Context(), id, status, reason, reviewer)
	switch {
	case errors.Is(err, store.ErrEmptyReason):
		middleware.ErrorResponse(w, http.StatusBadRequest, "A reason is required to reject a nomination")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	case err != nil:
		storeError(w, "review candidate", err)
		return
	}

	h.metrics.Review(status)
	slog.Info("nomination reviewed", "candidate_id", id, "status", status, "reviewer", reviewer)
	middleware.JSONResponse(w, http.StatusOK, c)
}

// Reviews handles GET /admin/nominations/{id}/reviews
func (h *NominationHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c, err := h.st.Candidate(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		storeError(w, "query candidate", err)
		return
	}

	reviews, err := h.st.Reviews(r.Context(), id)
	if err != nil {
		storeError(w, "query reviews", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ReviewLogResponse{Candidate: c, Reviews: reviews})
}

// Publish handles POST /admin/nominations/publish
func (h *NominationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	at, err := h.st.PublishCandidateList(r.Context())
	if errors.Is(err, store.ErrPendingNominations) {
		middleware.ErrorResponse(w, http.StatusConflict, "Review all pending nominations before publishing")
		return
	}
	if err != nil {
		storeError(w, "publish candidates", err)
		return
	}

	slog.Info("candidate list published", "published_at", at)
	middleware.JSONResponse(w, http.StatusOK, models.PublishCandidatesResponse{
		PublishedAt: at,
		Message:     "Final candidate list published.",
	})
}

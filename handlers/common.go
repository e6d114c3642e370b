// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/store"
)

const (
	msgElectionInactive = "Election is not currently active."
	msgLoginRequired    = "login required"
	msgResultsSealed    = "Results are sealed"
)

// storeError maps store failures that no handler treats specially.
func storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNoElection):
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not configured")
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	default:
		slog.Error("store operation failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

func badRequest(w http.ResponseWriter, err error) {
	if errors.Is(err, middleware.ErrInvalidBody) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
}

// reviewerName names the admin behind a request for the review log.
func reviewerName(r *http.Request, st *store.Store) string {
	sess, err := st.Session(r.Context(), middleware.SessionToken(r))
	if err != nil || sess.Role != models.RoleAdmin {
		return "admin"
	}
	return sess.SubjectID
}

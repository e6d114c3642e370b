// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/smartvote/auth"
	"github.com/danielhkuo/smartvote/login"
	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/simulate"
	"github.com/danielhkuo/smartvote/store"
)

// placeholderVoterName is used for voter sessions whose identifier is not
// on the roll.
const placeholderVoterName = "Student"

var landing = map[string]string{
	models.RoleVoter:     "/voter/ballot",
	models.RoleCandidate: "/candidate/nomination",
	models.RoleAdmin:     "/admin/dashboard",
}

type LoginHandler struct {
	st       *store.Store
	metrics  *metrics.Metrics
	lat      simulate.Latencies
	managers map[string]*login.Manager
}

// NewLoginHandler wires one flow manager per role.
func NewLoginHandler(st *store.Store, m *metrics.Metrics, lat simulate.Latencies, codeLength int) *LoginHandler {
	opts := login.Options{CodeLength: codeLength}
	return &LoginHandler{
		st:      st,
		metrics: m,
		lat:     lat,
		managers: map[string]*login.Manager{
			models.RoleVoter: login.NewManager(models.RoleVoter,
				login.SimulatedBackend(lat.VoterDispatch, lat.Verify), opts),
			models.RoleCandidate: login.NewManager(models.RoleCandidate,
				login.SimulatedBackend(lat.CandidateDispatch, lat.Verify), opts),
		},
	}
}

func flowResponse(f *login.Flow) models.FlowResponse {
	s := f.State()
	return models.FlowResponse{
		FlowID:   s.ID,
		Step:     string(s.Step),
		ResendIn: login.ResendSeconds(s.ResendIn),
	}
}

func (h *LoginHandler) flow(w http.ResponseWriter, role, id string) (*login.Flow, bool) {
	f, err := h.managers[role].Get(id)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Login flow not found")
		return nil, false
	}
	return f, true
}

func loginError(w http.ResponseWriter, err error) {
	var cd *login.CooldownError
	switch {
	case errors.Is(err, login.ErrIdentifierRequired):
		middleware.ErrorResponse(w, http.StatusBadRequest, "identifier is required")
	case errors.Is(err, login.ErrIncompleteCode):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, login.ErrWrongStep):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &cd):
		w.Header().Set("Retry-After", fmt.Sprint(login.ResendSeconds(cd.Remaining)))
		middleware.ErrorResponse(w, http.StatusTooManyRequests, cd.Error())
	case errors.Is(err, context.Canceled):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		slog.Error("login backend failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Login service unavailable")
	}
}

// Identify handles POST /{role}/login/identify. Without a flow_id a new
// flow is started.
func (h *LoginHandler) Identify(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.IdentifyRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			badRequest(w, err)
			return
		}
		if strings.TrimSpace(req.Identifier) == "" {
			h.metrics.Login(role, metrics.OutcomeRejected)
			loginError(w, login.ErrIdentifierRequired)
			return
		}

		var f *login.Flow
		if req.FlowID == "" {
			f = h.managers[role].Start()
		} else {
			var ok bool
			if f, ok = h.flow(w, role, req.FlowID); !ok {
				return
			}
		}

		if err := f.Identify(r.Context(), req.Identifier); err != nil {
			if !errors.Is(err, login.ErrWrongStep) && !errors.Is(err, context.Canceled) {
				h.metrics.Login(role, metrics.OutcomeFailed)
			}
			loginError(w, err)
			return
		}

		h.metrics.Login(role, metrics.OutcomeCodeSent)
		slog.Info("login code sent",
			"role", role,
			"flow_id", f.ID(),
			"identifier", auth.MaskIdentifier(f.State().Identifier),
		)
		middleware.JSONResponse(w, http.StatusOK, flowResponse(f))
	}
}

// Verify handles POST /{role}/login/verify and opens a session.
func (h *LoginHandler) Verify(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.VerifyRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			badRequest(w, err)
			return
		}
		f, ok := h.flow(w, role, req.FlowID)
		if !ok {
			return
		}

		identifier, err := f.Verify(r.Context(), req.Code)
		if err != nil {
			if errors.Is(err, login.ErrIncompleteCode) {
				h.metrics.Login(role, metrics.OutcomeRejected)
			}
			loginError(w, err)
			return
		}

		// the flow is done either way
		h.managers[role].Finish(f.ID())
		resp, err := h.openSession(r, role, identifier)
		if err != nil {
			storeError(w, "create session", err)
			return
		}
		h.metrics.Login(role, metrics.OutcomeSuccess)
		slog.Info("login succeeded", "role", role, "identifier", auth.MaskIdentifier(identifier))
		middleware.JSONResponse(w, http.StatusOK, resp)
	}
}

func (h *LoginHandler) openSession(r *http.Request, role, identifier string) (models.SessionResponse, error) {
	ctx := r.Context()
	resp := models.SessionResponse{Role: role, Next: landing[role]}

	name := identifier
	if role == models.RoleVoter {
		v, err := h.st.Voter(ctx, identifier)
		switch {
		case errors.Is(err, store.ErrNotFound):
			v = models.Voter{ID: identifier, Name: placeholderVoterName}
		case err != nil:
			return models.SessionResponse{}, err
		}
		name = v.Name
		resp.Voter = &v
	}

	sess, err := h.st.CreateSession(ctx, role, identifier, name)
	if err != nil {
		return models.SessionResponse{}, err
	}
	resp.SessionToken = sess.Token
	return resp, nil
}

// Back handles POST /{role}/login/back
func (h *LoginHandler) Back(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.FlowRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			badRequest(w, err)
			return
		}
		f, ok := h.flow(w, role, req.FlowID)
		if !ok {
			return
		}
		if err := f.Back(); err != nil {
			loginError(w, err)
			return
		}
		middleware.JSONResponse(w, http.StatusOK, flowResponse(f))
	}
}

// Resend handles POST /{role}/login/resend. It only restarts the
// countdown.
func (h *LoginHandler) Resend(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.FlowRequest
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			badRequest(w, err)
			return
		}
		f, ok := h.flow(w, role, req.FlowID)
		if !ok {
			return
		}
		if err := f.Resend(); err != nil {
			loginError(w, err)
			return
		}
		middleware.JSONResponse(w, http.StatusOK, flowResponse(f))
	}
}

// AdminLogin handles POST /admin/login. Any non-empty credentials are
// accepted after the simulated delay.
func (h *LoginHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		badRequest(w, err)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		h.metrics.Login(models.RoleAdmin, metrics.OutcomeRejected)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := simulate.Sleep(r.Context(), h.lat.AdminLogin); err != nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Request cancelled")
		return
	}

	resp, err := h.openSession(r, models.RoleAdmin, email)
	if err != nil {
		storeError(w, "create session", err)
		return
	}
	h.metrics.Login(models.RoleAdmin, metrics.OutcomeSuccess)
	slog.Info("admin login", "email", auth.MaskIdentifier(email))
	middleware.JSONResponse(w, http.StatusOK, resp)
}

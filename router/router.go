// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/smartvote/cliparse"
	"github.com/danielhkuo/smartvote/handlers"
	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/pipeline"
	"github.com/danielhkuo/smartvote/simulate"
	"github.com/danielhkuo/smartvote/store"
)

// Layouts wrapping the client screens.
const (
	LayoutPublic = "public"
	LayoutAuth   = "auth"
	LayoutAdmin  = "admin"
)

// Screen is one entry of the client route table. Layouts lists the
// wrappers from outermost to innermost.
type Screen struct {
	Path    string   `json:"path"`
	Layouts []string `json:"layouts"`
	Screen  string   `json:"screen"`
}

var (
	public = []string{LayoutPublic}
	auth   = []string{LayoutPublic, LayoutAuth}
	admin  = []string{LayoutPublic, LayoutAdmin}
)

// Screens is the client route table. Every screen sits inside the public
// layout so the navbar and footer always show.
var Screens = []Screen{
	{"/", public, "LandingRoleSelect"},
	{"/results", public, "ResultsPublic"},
	{"/election/:electionId/candidates", public, "CandidateListPublic"},

	{"/admin/login", auth, "AdminLogin"},
	{"/voter/login", auth, "VoterLogin"},
	{"/candidate/login", auth, "CandidateLogin"},

	{"/admin/dashboard", admin, "AdminDashboard"},
	{"/admin/elections/new", admin, "ElectionNew"},
	{"/admin/elections/:electionId/settings", admin, "ElectionSettings"},
	{"/admin/voters", admin, "VoterManagement"},
	{"/admin/nominations", admin, "NominationsAdmin"},
	{"/admin/live-dashboard", admin, "LiveDashboard"},
	{"/admin/results-processing", admin, "ResultsProcessing"},
	{"/admin/reports", admin, "Reports"},

	{"/voter/ballot", auth, "Ballot"},
	{"/voter/review", auth, "ReviewVote"},
	{"/voter/thank-you", auth, "ThankYou"},

	{"/candidate/nomination", auth, "NominationForm"},
}

func latencies(cfg cliparse.Config) simulate.Latencies {
	if cfg.SimulateLatency {
		return simulate.DefaultLatencies()
	}
	return simulate.NoLatencies()
}

func NewRouter(st *store.Store, m *metrics.Metrics, gatherer prometheus.Gatherer, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()
	lat := latencies(cfg)
	logged := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(cfg.SessionSalt, h)
	}

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(st, m, lat)
	nominationHandler := handlers.NewNominationHandler(st, m)
	loginHandler := handlers.NewLoginHandler(st, m, lat, cfg.OTPLength)
	votingHandler := handlers.NewVotingHandler(st, m)
	processingHandler := handlers.NewProcessingHandler(
		pipeline.New(handlers.NewProcessingOperation(st, m, lat.PipelineStage)), m)
	publicHandler := handlers.NewPublicHandler(st)
	themeHandler := handlers.NewThemeHandler()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Election settings and lifecycle (admin)
	mux.HandleFunc("GET /admin/election", logged(adminHandler.GetElection))
	mux.HandleFunc("PUT /admin/election", logged(adminHandler.UpdateElection))
	mux.HandleFunc("POST /admin/election/phase", logged(adminHandler.SetPhase))
	mux.HandleFunc("POST /admin/election/toggle", logged(adminHandler.ToggleVoting))

	// Dashboards and reports
	mux.HandleFunc("GET /admin/dashboard", logged(adminHandler.Dashboard))
	mux.HandleFunc("GET /admin/live", logged(adminHandler.LiveDashboard))
	mux.HandleFunc("GET /admin/reports", logged(adminHandler.Reports))

	// Posts and voter roll
	mux.HandleFunc("GET /admin/posts", logged(adminHandler.ListPosts))
	mux.HandleFunc("POST /admin/posts", logged(adminHandler.AddPost))
	mux.HandleFunc("DELETE /admin/posts/{id}", logged(adminHandler.DeletePost))
	mux.HandleFunc("GET /admin/voters", logged(adminHandler.ListVoters))
	mux.HandleFunc("POST /admin/voters/import", logged(adminHandler.ImportVoters))
	mux.HandleFunc("POST /admin/voters/finalize", logged(adminHandler.FinalizeVoters))
	mux.HandleFunc("DELETE /admin/voters/{id}", logged(adminHandler.DeleteVoter))

	// Nomination scrutiny
	mux.HandleFunc("GET /admin/nominations", logged(nominationHandler.List))
	mux.HandleFunc("POST /admin/nominations/publish", logged(nominationHandler.Publish))
	mux.HandleFunc("POST /admin/nominations/{id}/approve", logged(nominationHandler.Approve))
	mux.HandleFunc("POST /admin/nominations/{id}/reject", logged(nominationHandler.Reject))
	mux.HandleFunc("GET /admin/nominations/{id}/reviews", logged(nominationHandler.Reviews))

	// Result processing
	mux.HandleFunc("GET /admin/processing", logged(processingHandler.State))
	mux.HandleFunc("POST /admin/processing/advance", logged(processingHandler.Advance))

	// Login
	mux.HandleFunc("POST /admin/login", logged(loginHandler.AdminLogin))
	for _, role := range []string{models.RoleVoter, models.RoleCandidate} {
		mux.HandleFunc("POST /"+role+"/login/identify", logged(loginHandler.Identify(role)))
		mux.HandleFunc("POST /"+role+"/login/verify", logged(loginHandler.Verify(role)))
		mux.HandleFunc("POST /"+role+"/login/back", logged(loginHandler.Back(role)))
		mux.HandleFunc("POST /"+role+"/login/resend", logged(loginHandler.Resend(role)))
	}

	// Candidate
	mux.HandleFunc("POST /candidate/nominations", logged(nominationHandler.Submit))

	// Voter
	mux.HandleFunc("GET /voter/ballot", logged(votingHandler.Ballot))
	mux.HandleFunc("PUT /voter/ballot/selections", logged(votingHandler.Select))
	mux.HandleFunc("DELETE /voter/ballot/selections/{post_id}", logged(votingHandler.ClearSelection))
	mux.HandleFunc("GET /voter/review", logged(votingHandler.Review))
	mux.HandleFunc("POST /voter/confirm", logged(votingHandler.Confirm))

	// Public
	mux.HandleFunc("GET /public/candidates", logged(publicHandler.Candidates))
	mux.HandleFunc("GET /public/results", logged(publicHandler.Results))
	mux.HandleFunc("GET /theme", logged(themeHandler.Get))
	mux.HandleFunc("POST /theme/toggle", logged(themeHandler.Toggle))

	mux.HandleFunc("GET /shell/routes", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, Screens)
	})

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("smartvote API v1"))
	})

	return mux
}

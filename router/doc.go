// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the SmartVote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, m, prometheus.DefaultGatherer, cfg)

When cfg.SimulateLatency is set the handlers wait the demo delays
(simulate.DefaultLatencies); otherwise they answer immediately.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Election administration:

	GET  /admin/election          - Election settings
	PUT  /admin/election          - Save name and academic year
	POST /admin/election/phase    - Move to the next phase
	POST /admin/election/toggle   - Open or close voting
	GET  /admin/dashboard         - Summary counts
	GET  /admin/live              - Live turnout
	GET  /admin/reports           - Results report

Posts, voters and nominations:

	GET/POST /admin/posts, DELETE /admin/posts/{id}
	GET /admin/voters, POST /admin/voters/import, POST /admin/voters/finalize
	DELETE /admin/voters/{id}
	GET /admin/nominations, POST /admin/nominations/{id}/approve|reject
	GET /admin/nominations/{id}/reviews, POST /admin/nominations/publish

Result processing:

	GET  /admin/processing
	POST /admin/processing/advance

Login (voter and candidate share the same four steps):

	POST /admin/login
	POST /{voter,candidate}/login/{identify,verify,back,resend}

Voting and nomination:

	GET /voter/ballot, PUT /voter/ballot/selections
	DELETE /voter/ballot/selections/{post_id}
	GET /voter/review, POST /voter/confirm
	POST /candidate/nominations

Public:

	GET  /public/candidates
	GET  /public/results
	GET  /theme, POST /theme/toggle
	GET  /shell/routes - Client screen table

# Client Screens

Screens lists every client path with the layouts wrapping it. The public
layout wraps every screen; login, ballot and nomination screens add the
auth layout and the admin console adds the admin layout.
*/
package router

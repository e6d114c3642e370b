// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the SmartVote API.

# Handler Types

Each handler is a struct over the election store and, where it records
activity, the Prometheus collectors:

  - AdminHandler: Election settings, lifecycle, posts, voter roll, dashboards
  - NominationHandler: Nomination submission and admin review
  - LoginHandler: Two-step OTP login for voters and candidates, admin login
  - VotingHandler: Ballot, selections, review and confirmation
  - ProcessingHandler: Result processing pipeline
  - PublicHandler: Public candidate list and published results
  - ThemeHandler: Light/dark preference

Handlers are created via constructor functions:

	adminHandler := handlers.NewAdminHandler(st, m, simulate.DefaultLatencies())

# Election Lifecycle

The election moves strictly forward one phase at a time:

	pre-election → nomination → campaigning → voting → counting → results-published

	POST /admin/election/phase  → SetPhase (409 on an illegal move)
	POST /admin/election/toggle → ToggleVoting (campaigning ⇄ voting ⇄ counting)

# Login

Voters and candidates identify, then enter a one-time code:

	POST /voter/login/identify → Identify (returns flow_id)
	POST /voter/login/verify   → Verify (returns session_token)
	POST /voter/login/back     → Back
	POST /voter/login/resend   → Resend (429 during the cooldown)

Session-bound operations read the X-Session-Token header.

# Voting Flow

	GET    /voter/ballot                       → Ballot
	PUT    /voter/ballot/selections            → Select
	DELETE /voter/ballot/selections/{post_id}  → ClearSelection
	GET    /voter/review                       → Review
	POST   /voter/confirm                      → Confirm

Ballot operations answer 409 unless the election is in the voting phase.
Confirmation only sets the voter's has-voted flag.

# Result Processing

	GET  /admin/processing         → State
	POST /admin/processing/advance → Advance (202, runs in the background)

The lock stage closes voting and the publish stage releases results; the
other stages only take time.
*/
package handlers

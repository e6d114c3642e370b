// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the SmartVote API server.

SmartVote runs a university student council election: admins configure
the election and its posts, candidates submit nominations for review,
voters log in with a one-time code to fill, review and confirm a ballot,
and a staged result-processing pipeline publishes the outcome.

# Starting the Server

With no configuration the server runs on an in-memory SQLite database
loaded with the demo election:

	go run .

Or with flags:

	go run . -p 3318 -d smartvote.db -seed election.toml -latency=false

# Configuration

Settings come from flags, then the environment, then an optional .env
file (-env-file):

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): SQLite DSN (default: :memory:)
  - SEED_FILE (-seed): TOML dataset loaded into an empty database (default: embedded demo)
  - SESSION_SALT (-session-salt): Secret for hashing client IPs in logs (default: random)
  - SIMULATE_LATENCY (-latency): Wait the demo delays (default: true)
  - OTP_LENGTH (-otp-length): Login code length (default: 6)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (admin, nominations, login, voting, processing, public, theme)
  - router: Route definitions using Go 1.22+ routing, client screen table
  - middleware: CORS, logging, JSON helpers, request validation
  - models: Request/response types, election phases
  - store: Election state on SQLite
  - pipeline: Staged result processing
  - login: Two-step OTP login flows
  - theme: Light/dark preference
  - seed: TOML datasets
  - metrics: Prometheus collectors
  - simulate: Simulated backend latency
  - auth: Token generation and identifier masking
  - db: SQLite connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus collectors for logins, nominations,
// scrutiny, ballots, the election phase and result processing. The router
// serves them at /metrics.
package metrics

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package simulate provides request/response operations that stand in for
// a real backend. Callers depend on Operation; the simulated version only
// waits a fixed latency before calling a local function, so a networked
// implementation can replace it without touching the state machines that
// use it.
package simulate

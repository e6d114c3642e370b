// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package login implements the two-step one-time-code login used by voters
and candidates.

	identify --Identify--> authenticate --Verify--> done
	    ^                       |
	    +---------Back----------+

Identify refuses an empty identifier and otherwise dispatches a code.
Verify accepts any code of exactly CodeLength characters; shorter or longer
codes fail with ErrIncompleteCode and never reach the backend. Resend only
restarts the countdown and fails with a *CooldownError while it is
running.

A Manager holds the open flows of one role, keyed by a random flow ID that
clients send back on each step.
*/
package login

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database setup and schema creation.

# Opening

Open connects through modernc.org/sqlite (pure Go, no cgo) and creates
the schema:

	conn, err := db.Open(":memory:")

The default DSN is an in-memory database. The pool is limited to one
connection so every query sees the same in-memory database.

# Tables

  - election: single row with name, academic year, phase, voter list lock
  - post: electable positions
  - voter: eligible voters and their has_voted flag
  - candidate: nominations with status pending/approved/rejected
  - candidate_review: approve/reject log
  - results: aggregated results as a JSON payload
  - session: session tokens per role
  - pending_selection: in-progress ballot, one candidate per post

# Relationships

	session 1──* pending_selection
	post    1··* candidate   (by post_id, not enforced)

Deleting a post does not touch candidate rows. The orphaned post_id is
kept on purpose and covered by store tests.

The position columns keep insertion order for listings.
*/
package db

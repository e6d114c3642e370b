// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the election state store: the election setup, posts,
voters, candidates, aggregated results, sessions and pending ballots.

Every workflow of the portal reads and writes through a single *Store, so a
change made by one role is visible to every other role on its next read.
Setters replace whole collections; the Add/Delete/Review methods apply one
change and report typed errors:

	ErrEmptyName, ErrDuplicatePost      post creation
	ErrEmptyReason, ErrInvalidStatus    nomination review
	ErrVoterListFinalized               voter deletion after finalization
	ErrPendingNominations               publishing the candidate list
	ErrNotFound                         any lookup or change by ID

Post names are compared with Unicode case folding. Deleting a post leaves
candidates that reference it untouched; readers must tolerate dangling
post IDs.

The store runs over database/sql with modernc.org/sqlite. db.Open pins the
pool to one connection, which serializes every operation.
*/
package store

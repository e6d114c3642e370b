// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/smartvote/models"
)

// StatusAll disables status filtering in CandidateFilter.
const StatusAll = "all"

type CandidateFilter struct {
	Status string // one of the candidate statuses, or StatusAll / "" for every status
	Search string // matched against name and department, ignoring case
	PostID string
}

func (f CandidateFilter) match(c models.Candidate) bool {
	if f.Status != "" && f.Status != StatusAll && c.Status != f.Status {
		return false
	}
	if f.PostID != "" && c.PostID != f.PostID {
		return false
	}
	if f.Search != "" && !containsFold(c.Name, f.Search) && !containsFold(c.Department, f.Search) {
		return false
	}
	return true
}

// Candidates returns candidates matching filter in nomination order.
func (s *Store) Candidates(ctx context.Context, filter CandidateFilter) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, post_id, department, year, status, manifesto
		FROM candidate ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.PostID, &c.Department, &c.Year, &c.Status, &c.Manifesto); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if filter.match(c) {
			candidates = append(candidates, c)
		}
	}
	return candidates, rows.Err()
}

// Candidate returns a single candidate by ID.
func (s *Store) Candidate(ctx context.Context, id string) (models.Candidate, error) {
	var c models.Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, post_id, department, year, status, manifesto
		FROM candidate WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.PostID, &c.Department, &c.Year, &c.Status, &c.Manifesto)
	if err == sql.ErrNoRows {
		return models.Candidate{}, ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

// SetCandidates replaces the whole candidate collection.
func (s *Store) SetCandidates(ctx context.Context, candidates []models.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate`); err != nil {
		return fmt.Errorf("failed to clear candidates: %w", err)
	}
	for _, c := range candidates {
		if c.Status == "" {
			c.Status = models.CandidatePending
		}
		if err := insertCandidate(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddCandidate records a new nomination with status pending. There is no
// duplicate or eligibility check.
func (s *Store) AddCandidate(ctx context.Context, c models.Candidate) (models.Candidate, error) {
	c.ID = newID("c")
	c.Status = models.CandidatePending

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertCandidate(ctx, tx, c); err != nil {
		return models.Candidate{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Candidate{}, fmt.Errorf("failed to commit candidate: %w", err)
	}
	return c, nil
}

func insertCandidate(ctx context.Context, tx *sql.Tx, c models.Candidate) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO candidate (id, name, post_id, department, year, status, manifesto, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM candidate))
	`, c.ID, c.Name, c.PostID, c.Department, c.Year, c.Status, c.Manifesto)
	if err != nil {
		return fmt.Errorf("failed to insert candidate %s: %w", c.ID, err)
	}
	return nil
}

// ReviewCandidate sets a nomination's status and appends to the review log.
// Rejections need a non-empty reason.
func (s *Store) ReviewCandidate(ctx context.Context, id, status, reason, reviewer string) (models.Candidate, error) {
	reason = strings.TrimSpace(reason)
	switch status {
	case models.CandidateApproved:
	case models.CandidateRejected:
		if reason == "" {
			return models.Candidate{}, ErrEmptyReason
		}
	default:
		return models.Candidate{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE candidate SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to update candidate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Candidate{}, ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidate_review (candidate_id, status, reason, reviewer, reviewed_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, status, reason, reviewer, time.Now().UTC())
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to record review: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Candidate{}, fmt.Errorf("failed to commit review: %w", err)
	}
	return s.Candidate(ctx, id)
}

// Reviews returns the review log for a candidate, oldest first.
func (s *Store) Reviews(ctx context.Context, candidateID string) ([]models.CandidateReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_id, status, reason, reviewer, reviewed_at
		FROM candidate_review WHERE candidate_id = ? ORDER BY id
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.CandidateReview{}
	for rows.Next() {
		var r models.CandidateReview
		if err := rows.Scan(&r.CandidateID, &r.Status, &r.Reason, &r.Reviewer, &r.ReviewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// PublishCandidateList marks the candidate list final. It fails while any
// nomination is still pending.
func (s *Store) PublishCandidateList(ctx context.Context) (time.Time, error) {
	var pending int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidate WHERE status = ?
	`, models.CandidatePending).Scan(&pending)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to count pending candidates: %w", err)
	}
	if pending > 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrPendingNominations, pending)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `UPDATE election SET candidates_published_at = ?`, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to publish candidates: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return time.Time{}, ErrNoElection
	}
	return now, nil
}

// CandidateCounts returns the number of candidates per status.
func (s *Store) CandidateCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM candidate GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		models.CandidatePending:  0,
		models.CandidateApproved: 0,
		models.CandidateRejected: 0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan candidate count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

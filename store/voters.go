// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/smartvote/models"
)

// Voters returns voters whose name or department contains search,
// ignoring case. An empty search returns everyone.
func (s *Store) Voters(ctx context.Context, search string) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, department, year, has_voted FROM voter ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.Name, &v.Department, &v.Year, &v.HasVoted); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		if search != "" && !containsFold(v.Name, search) && !containsFold(v.Department, search) {
			continue
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

// Voter returns a single voter by ID.
func (s *Store) Voter(ctx context.Context, id string) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, department, year, has_voted FROM voter WHERE id = ?
	`, id).Scan(&v.ID, &v.Name, &v.Department, &v.Year, &v.HasVoted)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// SetVoters replaces the whole voter collection.
func (s *Store) SetVoters(ctx context.Context, voters []models.Voter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM voter`); err != nil {
		return fmt.Errorf("failed to clear voters: %w", err)
	}
	if err := insertVoters(ctx, tx, voters); err != nil {
		return err
	}
	return tx.Commit()
}

// AddVoters appends voters, assigning IDs to those without one.
func (s *Store) AddVoters(ctx context.Context, voters []models.Voter) ([]models.Voter, error) {
	added := make([]models.Voter, len(voters))
	for i, v := range voters {
		if v.ID == "" {
			v.ID = newID("v")
		}
		added[i] = v
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertVoters(ctx, tx, added); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit voters: %w", err)
	}
	return added, nil
}

func insertVoters(ctx context.Context, tx *sql.Tx, voters []models.Voter) error {
	for _, v := range voters {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO voter (id, name, department, year, has_voted, position)
			VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM voter))
		`, v.ID, v.Name, v.Department, v.Year, v.HasVoted)
		if err != nil {
			return fmt.Errorf("failed to insert voter %s: %w", v.ID, err)
		}
	}
	return nil
}

// DeleteVoter removes a voter unless the list has been finalized.
func (s *Store) DeleteVoter(ctx context.Context, id string) error {
	finalized, err := s.VotersFinalized(ctx)
	if err != nil {
		return err
	}
	if finalized {
		return ErrVoterListFinalized
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM voter WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete voter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FinalizeVoters locks the voter list against deletions.
func (s *Store) FinalizeVoters(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `UPDATE election SET voters_finalized = 1`)
	if err != nil {
		return fmt.Errorf("failed to finalize voters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoElection
	}
	return nil
}

func (s *Store) VotersFinalized(ctx context.Context) (bool, error) {
	var finalized bool
	err := s.db.QueryRowContext(ctx, `SELECT voters_finalized FROM election LIMIT 1`).Scan(&finalized)
	if err == sql.ErrNoRows {
		return false, ErrNoElection
	}
	if err != nil {
		return false, fmt.Errorf("failed to query voter list state: %w", err)
	}
	return finalized, nil
}

// MarkVoted sets has_voted for one voter. It reports whether the flag
// changed, so repeat confirmations can be told apart.
func (s *Store) MarkVoted(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE voter SET has_voted = 1 WHERE id = ? AND has_voted = 0
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark voter: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return true, nil
	}
	if _, err := s.Voter(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Turnout counts registered voters and those who have voted.
func (s *Store) Turnout(ctx context.Context) (total, voted int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(has_voted), 0) FROM voter
	`).Scan(&total, &voted)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return total, voted, nil
}

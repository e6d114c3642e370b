// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/danielhkuo/smartvote/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrDuplicatePost      = errors.New("post already exists")
	ErrEmptyReason        = errors.New("rejection reason is required")
	ErrInvalidStatus      = errors.New("invalid candidate status")
	ErrVoterListFinalized = errors.New("voter list is finalized")
	ErrPendingNominations = errors.New("nominations still pending review")
	ErrNoElection         = errors.New("election not configured")
)

// Store is the election state store. It is safe for concurrent use; the
// underlying pool serializes access to the database.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the connection for health checks and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// newID returns a prefixed random identifier such as "c-2f1d...".
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// fold normalizes a string for case-insensitive comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}

// containsFold reports whether needle occurs in haystack ignoring case.
func containsFold(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

// Election returns the election setup with derived flags filled in.
func (s *Store) Election(ctx context.Context) (models.ElectionSetup, error) {
	var e models.ElectionSetup
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, academic_year, phase FROM election LIMIT 1
	`).Scan(&e.ID, &e.Name, &e.AcademicYear, &e.Phase)
	if err == sql.ErrNoRows {
		return models.ElectionSetup{}, ErrNoElection
	}
	if err != nil {
		return models.ElectionSetup{}, fmt.Errorf("failed to query election: %w", err)
	}
	return e.WithFlags(), nil
}

// SetElection replaces the election row. The phase is taken as given;
// use SetPhase for lifecycle changes.
func (s *Store) SetElection(ctx context.Context, e models.ElectionSetup) error {
	if !e.Phase.Valid() {
		return fmt.Errorf("%w: unknown phase %q", models.ErrInvalidTransition, e.Phase)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM election`); err != nil {
		return fmt.Errorf("failed to clear election: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO election (id, name, academic_year, phase)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.Name, e.AcademicYear, string(e.Phase))
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return tx.Commit()
}

// UpdateElection changes the display name and academic year.
func (s *Store) UpdateElection(ctx context.Context, name, academicYear string) (models.ElectionSetup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ElectionSetup{}, ErrEmptyName
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE election SET name = ?, academic_year = ?
	`, name, strings.TrimSpace(academicYear))
	if err != nil {
		return models.ElectionSetup{}, fmt.Errorf("failed to update election: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ElectionSetup{}, ErrNoElection
	}
	return s.Election(ctx)
}

// SetPhase moves the election to phase to if the lifecycle allows it.
func (s *Store) SetPhase(ctx context.Context, to models.Phase) (models.ElectionSetup, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ElectionSetup{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var from models.Phase
	err = tx.QueryRowContext(ctx, `SELECT phase FROM election LIMIT 1`).Scan(&from)
	if err == sql.ErrNoRows {
		return models.ElectionSetup{}, ErrNoElection
	}
	if err != nil {
		return models.ElectionSetup{}, fmt.Errorf("failed to query phase: %w", err)
	}

	if err := models.CheckTransition(from, to); err != nil {
		return models.ElectionSetup{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE election SET phase = ?`, string(to)); err != nil {
		return models.ElectionSetup{}, fmt.Errorf("failed to update phase: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.ElectionSetup{}, fmt.Errorf("failed to commit phase: %w", err)
	}
	return s.Election(ctx)
}

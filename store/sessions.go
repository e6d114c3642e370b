// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/smartvote/auth"
	"github.com/danielhkuo/smartvote/models"
)

// CreateSession issues a new session token for a logged-in subject.
func (s *Store) CreateSession(ctx context.Context, role, subjectID, subjectName string) (models.Session, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return models.Session{}, err
	}
	sess := models.Session{
		Token:       token,
		Role:        role,
		SubjectID:   subjectID,
		SubjectName: subjectName,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (token, role, subject_id, subject_name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, sess.Token, sess.Role, sess.SubjectID, sess.SubjectName, sess.CreatedAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	return sess, nil
}

// Session looks up a session token.
func (s *Store) Session(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrNotFound
	}
	var sess models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT token, role, subject_id, subject_name, created_at
		FROM session WHERE token = ?
	`, token).Scan(&sess.Token, &sess.Role, &sess.SubjectID, &sess.SubjectName, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	return sess, nil
}

// CurrentVoter resolves the voter behind a voter session. Sessions opened
// with an identifier that is not on the roll get a placeholder voter that
// is not stored anywhere.
func (s *Store) CurrentVoter(ctx context.Context, token string) (models.Voter, error) {
	sess, err := s.Session(ctx, token)
	if err != nil {
		return models.Voter{}, err
	}
	if sess.Role != models.RoleVoter {
		return models.Voter{}, ErrNotFound
	}
	v, err := s.Voter(ctx, sess.SubjectID)
	if err == ErrNotFound {
		return models.Voter{ID: sess.SubjectID, Name: sess.SubjectName}, nil
	}
	return v, err
}

// Selections returns the pending ballot of a session, keyed by post ID.
func (s *Store) Selections(ctx context.Context, token string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id, candidate_id FROM pending_selection WHERE session_token = ?
	`, token)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	selections := map[string]string{}
	for rows.Next() {
		var postID, candidateID string
		if err := rows.Scan(&postID, &candidateID); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections[postID] = candidateID
	}
	return selections, rows.Err()
}

// Select records candidateID as the session's choice for postID,
// replacing any earlier choice for that post.
func (s *Store) Select(ctx context.Context, token, postID, candidateID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_selection (session_token, post_id, candidate_id)
		VALUES (?, ?, ?)
		ON CONFLICT (session_token, post_id) DO UPDATE SET candidate_id = excluded.candidate_id
	`, token, postID, candidateID)
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// ClearSelection drops the session's choice for postID.
func (s *Store) ClearSelection(ctx context.Context, token, postID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM pending_selection WHERE session_token = ? AND post_id = ?
	`, token, postID)
	if err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

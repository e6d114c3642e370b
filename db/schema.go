// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Open connects to the SQLite database at dsn and creates the schema.
// The pool is pinned to a single connection: every connection to
// ":memory:" would otherwise get its own empty database.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Election (single row)
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    academic_year TEXT NOT NULL,
    phase TEXT NOT NULL DEFAULT 'pre-election' CHECK (phase IN (
        'pre-election', 'nomination', 'campaigning', 'voting', 'counting', 'results-published'
    )),
    voters_finalized INTEGER NOT NULL DEFAULT 0,
    candidates_published_at TIMESTAMP
);

-- Posts
CREATE TABLE IF NOT EXISTS post (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    seats INTEGER NOT NULL DEFAULT 1,
    position INTEGER NOT NULL
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    department TEXT NOT NULL,
    year TEXT NOT NULL,
    has_voted INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voter_department ON voter(department);

-- Candidates (post_id is deliberately not a foreign key: deleting a post
-- leaves its candidates in place)
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    post_id TEXT NOT NULL,
    department TEXT NOT NULL,
    year TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    manifesto TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidate_post_id ON candidate(post_id);
CREATE INDEX IF NOT EXISTS idx_candidate_status ON candidate(status);

-- Nomination review log
CREATE TABLE IF NOT EXISTS candidate_review (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    candidate_id TEXT NOT NULL,
    status TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    reviewer TEXT NOT NULL,
    reviewed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidate_review_candidate ON candidate_review(candidate_id);

-- Aggregated results (JSON payload, single row)
CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    payload TEXT NOT NULL
);

-- Sessions
CREATE TABLE IF NOT EXISTS session (
    token TEXT PRIMARY KEY,
    role TEXT NOT NULL CHECK (role IN ('admin', 'voter', 'candidate')),
    subject_id TEXT NOT NULL,
    subject_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Pending ballot selections, one per post per session
CREATE TABLE IF NOT EXISTS pending_selection (
    session_token TEXT NOT NULL REFERENCES session(token) ON DELETE CASCADE,
    post_id TEXT NOT NULL,
    candidate_id TEXT NOT NULL,
    PRIMARY KEY (session_token, post_id)
);
`

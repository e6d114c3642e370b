// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/smartvote/models"
)

// Posts returns all posts in creation order.
func (s *Store) Posts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, seats FROM post ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Name, &p.Seats); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Post returns a single post by ID.
func (s *Store) Post(ctx context.Context, id string) (models.Post, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return models.Post{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, ErrNotFound
}

// SetPosts replaces the whole post collection.
func (s *Store) SetPosts(ctx context.Context, posts []models.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post`); err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	for i, p := range posts {
		if p.Seats <= 0 {
			p.Seats = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO post (id, name, seats, position) VALUES (?, ?, ?, ?)
		`, p.ID, p.Name, p.Seats, i+1)
		if err != nil {
			return fmt.Errorf("failed to insert post %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// AddPost creates a post. Names are trimmed and must be unique ignoring case.
func (s *Store) AddPost(ctx context.Context, name string, seats int) (models.Post, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Post{}, ErrEmptyName
	}
	if seats <= 0 {
		seats = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT name FROM post`)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to query posts: %w", err)
	}
	folded := fold(name)
	duplicate := false
	for rows.Next() {
		var existing string
		if err := rows.Scan(&existing); err != nil {
			rows.Close()
			return models.Post{}, fmt.Errorf("failed to scan post: %w", err)
		}
		if fold(existing) == folded {
			duplicate = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Post{}, fmt.Errorf("failed to read posts: %w", err)
	}
	if duplicate {
		return models.Post{}, ErrDuplicatePost
	}

	post := models.Post{ID: newID("p"), Name: name, Seats: seats}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO post (id, name, seats, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM post))
	`, post.ID, post.Name, post.Seats)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Post{}, fmt.Errorf("failed to commit post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post. Candidates referencing it are left untouched.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM post WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

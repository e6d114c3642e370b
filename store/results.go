// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/smartvote/models"
)

// Results returns the aggregated results. An unset payload yields empty maps.
func (s *Store) Results(ctx context.Context) (models.Results, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return emptyResults(), nil
	}
	if err != nil {
		return models.Results{}, fmt.Errorf("failed to query results: %w", err)
	}

	res := emptyResults()
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return models.Results{}, fmt.Errorf("failed to decode results: %w", err)
	}
	return normalizeResults(res), nil
}

// SetResults replaces the aggregated results.
func (s *Store) SetResults(ctx context.Context, res models.Results) error {
	payload, err := json.Marshal(normalizeResults(res))
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload
	`, string(payload))
	if err != nil {
		return fmt.Errorf("failed to store results: %w", err)
	}
	return nil
}

func emptyResults() models.Results {
	return models.Results{
		TurnoutByDepartment: map[string]int{},
		WinnersByPost:       map[string]string{},
		VotesByCandidate:    map[string]int{},
	}
}

func normalizeResults(res models.Results) models.Results {
	if res.TurnoutByDepartment == nil {
		res.TurnoutByDepartment = map[string]int{}
	}
	if res.WinnersByPost == nil {
		res.WinnersByPost = map[string]string{}
	}
	if res.VotesByCandidate == nil {
		res.VotesByCandidate = map[string]int{}
	}
	return res
}

// TotalVotes sums votes across candidates.
func TotalVotes(res models.Results) int {
	total := 0
	for _, n := range res.VotesByCandidate {
		total += n
	}
	return total
}

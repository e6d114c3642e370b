// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/naoina/toml"

	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/store"
)

//go:embed default.toml
var defaultDataset []byte

// Election is the [election] table of a dataset.
type Election struct {
	ID           string       `toml:"id"`
	Name         string       `toml:"name"`
	AcademicYear string       `toml:"academic_year"`
	Phase        models.Phase `toml:"phase"`
}

// Dataset is a complete initial state.
type Dataset struct {
	Election   Election           `toml:"election"`
	Posts      []models.Post      `toml:"posts"`
	Voters     []models.Voter     `toml:"voters"`
	Candidates []models.Candidate `toml:"candidates"`
	Results    models.Results     `toml:"results"`
}

// Decode reads a dataset and checks that it can be applied.
func Decode(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := toml.NewDecoder(r).Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode seed: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

// Default returns the built-in demo dataset.
func Default() (Dataset, error) {
	return Decode(bytes.NewReader(defaultDataset))
}

// Load reads the dataset at path, or the built-in one when path is empty.
func Load(path string) (Dataset, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Validate rejects datasets the store would refuse or that break ID
// uniqueness. Candidates pointing at unknown posts are allowed.
func (d Dataset) Validate() error {
	if d.Election.Name == "" {
		return fmt.Errorf("seed: election name is required")
	}
	if !d.Election.Phase.Valid() {
		return fmt.Errorf("seed: unknown phase %q", d.Election.Phase)
	}
	if err := uniqueIDs("post", len(d.Posts), func(i int) string { return d.Posts[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("voter", len(d.Voters), func(i int) string { return d.Voters[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("candidate", len(d.Candidates), func(i int) string { return d.Candidates[i].ID }); err != nil {
		return err
	}
	for _, c := range d.Candidates {
		switch c.Status {
		case "", models.CandidatePending, models.CandidateApproved, models.CandidateRejected:
		default:
			return fmt.Errorf("seed: candidate %s has invalid status %q", c.ID, c.Status)
		}
	}
	return nil
}

func uniqueIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return fmt.Errorf("seed: %s #%d has no id", kind, i+1)
		}
		if seen[v] {
			return fmt.Errorf("seed: duplicate %s id %q", kind, v)
		}
		seen[v] = true
	}
	return nil
}

// Apply replaces the store contents with the dataset.
func (d Dataset) Apply(ctx context.Context, s *store.Store) error {
	e := models.ElectionSetup{
		ID:           d.Election.ID,
		Name:         d.Election.Name,
		AcademicYear: d.Election.AcademicYear,
		Phase:        d.Election.Phase,
	}
	if err := s.SetElection(ctx, e); err != nil {
		return fmt.Errorf("seeding election: %w", err)
	}
	if err := s.SetPosts(ctx, d.Posts); err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	if err := s.SetVoters(ctx, d.Voters); err != nil {
		return fmt.Errorf("seeding voters: %w", err)
	}
	if err := s.SetCandidates(ctx, d.Candidates); err != nil {
		return fmt.Errorf("seeding candidates: %w", err)
	}
	if err := s.SetResults(ctx, d.Results); err != nil {
		return fmt.Errorf("seeding results: %w", err)
	}
	return nil
}

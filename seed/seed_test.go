// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/smartvote/db"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/store"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "University Student Council Election", d.Election.Name)
	assert.Equal(t, "2025-26", d.Election.AcademicYear)
	assert.Equal(t, models.PhaseVoting, d.Election.Phase)

	wantPosts := []models.Post{
		{ID: "p1", Name: "President", Seats: 1},
		{ID: "p2", Name: "General Secretary", Seats: 1},
		{ID: "p3", Name: "Treasurer", Seats: 1},
	}
	if diff := cmp.Diff(wantPosts, d.Posts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, d.Voters, 2)
	assert.False(t, d.Voters[0].HasVoted)
	assert.True(t, d.Voters[1].HasVoted)

	require.Len(t, d.Candidates, 2)
	assert.Equal(t, "p1", d.Candidates[1].PostID)

	assert.Equal(t, 72, d.Results.TurnoutByDepartment["Business"])
	assert.Equal(t, "c1", d.Results.WinnersByPost["p1"])
	assert.Equal(t, 1000, store.TotalVotes(d.Results))
}

func TestApply(t *testing.T) {
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	s := store.New(conn)
	ctx := context.Background()

	d, err := Default()
	require.NoError(t, err)
	require.NoError(t, d.Apply(ctx, s))

	e, err := s.Election(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseVoting, e.Phase)
	assert.True(t, e.ElectionActive)

	posts, err := s.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	total, voted, err := s.Turnout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, voted)

	res, err := s.Results(ctx)
	require.NoError(t, err)
	assert.Equal(t, 520, res.VotesByCandidate["c1"])

	// applying twice replaces rather than appends
	require.NoError(t, d.Apply(ctx, s))
	voters, err := s.Voters(ctx, "")
	require.NoError(t, err)
	assert.Len(t, voters, 2)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	content := `
[election]
id = "e"
name = "Hostel Committee"
academic_year = "2026-27"
phase = "pre-election"

[[posts]]
id = "warden-rep"
name = "Warden Representative"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, models.PhasePreElection, d.Election.Phase)
	require.Len(t, d.Posts, 1)
	assert.Empty(t, d.Voters)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad phase",
			content: "[election]\nname = \"x\"\nphase = \"closed\"\n",
			wantErr: "unknown phase",
		},
		{
			name:    "missing name",
			content: "[election]\nphase = \"voting\"\n",
			wantErr: "election name is required",
		},
		{
			name: "duplicate post id",
			content: "[election]\nname = \"x\"\nphase = \"voting\"\n" +
				"[[posts]]\nid = \"p1\"\nname = \"A\"\n[[posts]]\nid = \"p1\"\nname = \"B\"\n",
			wantErr: "duplicate post id",
		},
		{
			name: "bad candidate status",
			content: "[election]\nname = \"x\"\nphase = \"voting\"\n" +
				"[[candidates]]\nid = \"c1\"\nname = \"A\"\npost_id = \"p1\"\nstatus = \"maybe\"\n",
			wantErr: "invalid status",
		},
		{
			name:    "not toml",
			content: "[election\n",
			wantErr: "failed to decode seed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

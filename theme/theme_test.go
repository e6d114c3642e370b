// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", Light, false},
		{"dark", Dark, false},
		{"Dark", "", true},
		{"", "", true},
		{"solarized", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTheme)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		stored      string
		prefersDark bool
		want        Theme
	}{
		{"stored light beats system dark", "light", true, Light},
		{"stored dark beats system light", "dark", false, Dark},
		{"nothing stored, system dark", "", true, Dark},
		{"nothing stored, system light", "", false, Light},
		{"garbage stored falls back", "blue", true, Dark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.stored, tt.prefersDark))
		})
	}
}

func TestStore_TogglePersists(t *testing.T) {
	storage := MapStorage{}
	s := NewStore(storage, true)

	assert.Equal(t, Dark, s.Current())
	_, written := storage.Get(Key)
	assert.False(t, written, "reading must not persist")

	assert.Equal(t, Light, s.Toggle())
	assert.Equal(t, "light", storage[Key])

	// a new visit with the same storage keeps the choice over the system preference
	again := NewStore(storage, true)
	assert.Equal(t, Light, again.Current())
	assert.Equal(t, Dark, again.Toggle())
	assert.Equal(t, "dark", storage[Key])
}

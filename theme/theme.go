// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package theme

import (
	"errors"
	"fmt"
)

// Key is the name the preference is stored under.
const Key = "theme"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ErrInvalidTheme is returned when a value is neither light nor dark.
var ErrInvalidTheme = errors.New("invalid theme")

// Parse accepts only the literal values "light" and "dark".
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Resolve picks the stored value when it is valid and the system
// preference otherwise.
func Resolve(stored string, prefersDark bool) Theme {
	if t, err := Parse(stored); err == nil {
		return t
	}
	if prefersDark {
		return Dark
	}
	return Light
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string {
	return string(t)
}

// Storage is where a preference is kept between visits.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Store resolves and persists the preference of one client.
type Store struct {
	storage     Storage
	prefersDark bool
}

func NewStore(storage Storage, prefersDark bool) *Store {
	return &Store{storage: storage, prefersDark: prefersDark}
}

// Current returns the effective theme without writing anything.
func (s *Store) Current() Theme {
	stored, _ := s.storage.Get(Key)
	return Resolve(stored, s.prefersDark)
}

// Set persists t.
func (s *Store) Set(t Theme) {
	s.storage.Set(Key, t.String())
}

// Toggle flips the effective theme and persists the result.
func (s *Store) Toggle() Theme {
	next := s.Current().Toggle()
	s.Set(next)
	return next
}

// MapStorage is an in-memory Storage.
type MapStorage map[string]string

func (m MapStorage) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapStorage) Set(key, value string) {
	m[key] = value
}

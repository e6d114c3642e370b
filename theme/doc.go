// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package theme tracks the light/dark preference of a client. Resolve
// prefers a stored value and falls back to the system preference.
package theme

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/testutil"
	"github.com/danielhkuo/smartvote/theme"
)

// themeCookie returns the theme cookie set on the response, if any.
func themeCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == theme.Key {
			return c
		}
	}
	return nil
}

func TestGetTheme(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		hint     string
		expected string
	}{
		{"default light", "", "", "light"},
		{"system dark", "", `"dark"`, "dark"},
		{"system light", "", `"light"`, "light"},
		{"stored wins over system", "light", `"dark"`, "light"},
		{"stored dark", "dark", "", "dark"},
		{"garbage cookie", "sepia", `"dark"`, "dark"},
	}

	handler := NewThemeHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/theme", nil, nil)
			if tt.hint != "" {
				req.Header.Set(prefersColorSchemeHeader, tt.hint)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: theme.Key, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			handler.Get(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)
			if w.Header().Get("Accept-CH") != prefersColorSchemeHeader {
				t.Errorf("Expected Accept-CH header, got %q", w.Header().Get("Accept-CH"))
			}

			c := themeCookie(w)
			if c == nil || c.Value != tt.expected {
				t.Errorf("Expected %s to be persisted, got %+v", tt.expected, c)
			}

			var resp models.ThemeResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Theme != tt.expected {
				t.Errorf("Expected theme %s, got %s", tt.expected, resp.Theme)
			}
		})
	}
}

func TestToggleTheme(t *testing.T) {
	handler := NewThemeHandler()

	toggle := func(cookie *http.Cookie) (string, *http.Cookie) {
		t.Helper()
		req := testutil.MakeRequest("POST", "/theme/toggle", nil, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		handler.Toggle(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ThemeResponse
		testutil.AssertJSON(t, w, &resp)
		return resp.Theme, themeCookie(w)
	}

	got, cookie := toggle(nil)
	if got != "dark" || cookie == nil || cookie.Value != "dark" {
		t.Fatalf("Expected dark after first toggle, got %s (%+v)", got, cookie)
	}
	got, cookie = toggle(cookie)
	if got != "light" || cookie.Value != "light" {
		t.Errorf("Expected light after second toggle, got %s", got)
	}
}

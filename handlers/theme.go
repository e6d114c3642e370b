// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/smartvote/middleware"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/theme"
)

const prefersColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

// cookieStorage keeps theme preferences in cookies of the current
// request/response pair.
type cookieStorage struct {
	w http.ResponseWriter
	r *http.Request
}

func (c cookieStorage) Get(key string) (string, bool) {
	ck, err := c.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return ck.Value, true
}

func (c cookieStorage) Set(key, value string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

type ThemeHandler struct{}

func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

func prefersDark(r *http.Request) bool {
	v := strings.Trim(r.Header.Get(prefersColorSchemeHeader), `" `)
	return v == string(theme.Dark)
}

func (h *ThemeHandler) store(w http.ResponseWriter, r *http.Request) *theme.Store {
	w.Header().Set("Accept-CH", prefersColorSchemeHeader)
	w.Header().Add("Vary", prefersColorSchemeHeader)
	return theme.NewStore(cookieStorage{w: w, r: r}, prefersDark(r))
}

// Get handles GET /theme. The resolved theme is written back so it sticks
// on later visits.
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.store(w, r)
	t := s.Current()
	s.Set(t)
	middleware.JSONResponse(w, http.StatusOK, models.ThemeResponse{Theme: t.String()})
}

// Toggle handles POST /theme/toggle
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	t := h.store(w, r).Toggle()
	middleware.JSONResponse(w, http.StatusOK, models.ThemeResponse{Theme: t.String()})
}

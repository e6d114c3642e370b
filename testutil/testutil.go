// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/smartvote/cliparse"
	"github.com/danielhkuo/smartvote/db"
	"github.com/danielhkuo/smartvote/metrics"
	"github.com/danielhkuo/smartvote/models"
	"github.com/danielhkuo/smartvote/seed"
	"github.com/danielhkuo/smartvote/store"
)

// SetupTestStore opens a fresh in-memory database loaded with the demo
// dataset: posts p1-p3, voters v1 (not voted) and v2 (voted), approved
// candidates c1 and c2 for p1, phase voting.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	d, err := seed.Default()
	if err != nil {
		t.Fatalf("Failed to load seed: %v", err)
	}
	st := store.New(conn)
	if err := d.Apply(context.Background(), st); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		SessionSalt:     "test-session-salt",
		SimulateLatency: false,
		OTPLength:       6,
	}
}

// NewTestMetrics registers collectors on a private registry.
func NewTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("Failed to create metrics: %v", err)
	}
	return m
}

// SetTestPhase forces the election into phase, bypassing the lifecycle.
func SetTestPhase(t *testing.T, st *store.Store, phase models.Phase) {
	t.Helper()
	ctx := context.Background()
	e, err := st.Election(ctx)
	if err != nil {
		t.Fatalf("Failed to read election: %v", err)
	}
	e.Phase = phase
	if err := st.SetElection(ctx, e); err != nil {
		t.Fatalf("Failed to set phase: %v", err)
	}
}

// CreateTestSession opens a session and returns its token
func CreateTestSession(t *testing.T, st *store.Store, role, subjectID, subjectName string) string {
	t.Helper()
	sess, err := st.CreateSession(context.Background(), role, subjectID, subjectName)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return sess.Token
}

// AddTestCandidate submits a pending nomination and returns its ID
func AddTestCandidate(t *testing.T, st *store.Store, postID, name string) string {
	t.Helper()
	c, err := st.AddCandidate(context.Background(), models.Candidate{
		Name:       name,
		PostID:     postID,
		Department: "Law",
		Year:       "First",
		Manifesto:  "Test manifesto",
	})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return c.ID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

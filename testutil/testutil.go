// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/auth"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/cliparse"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/db"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

// TestDBURL is an in-memory SQLite database, private to one connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh in-memory database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   TestDBURL,
		DatabaseType:  db.TypeSQLite,
		AdminKeySalt:  "test-admin-salt",
		ShareCodeSalt: "test-code-salt",
	}
}

// CreateTestTrip inserts a trip with the default window and returns its ID,
// admin key and share code.
func CreateTestTrip(t *testing.T, conn *sqlx.DB, cfg cliparse.Config, year int, locked bool) (tripID, adminKey, shareCode string) {
	t.Helper()

	tripID = uuid.New().String()
	adminKey = auth.GenerateAdminKey(tripID, cfg.AdminKeySalt)
	shareCode = auth.GenerateShareCode(tripID, cfg.ShareCodeSalt)

	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO trip (id, share_code, name, year, window_start_day, window_days, timezone, locked, created_at)
		VALUES (?, ?, 'Test Trip', ?, ?, ?, '', ?, ?)
	`), tripID, shareCode, year, models.DefaultWindowStartDay, models.DefaultWindowDays, locked, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test trip: %v", err)
	}

	return tripID, adminKey, shareCode
}

// CreateTestParticipant adds a participant to a trip and returns its ID
func CreateTestParticipant(t *testing.T, conn *sqlx.DB, tripID, name string) string {
	t.Helper()

	participantID := uuid.New().String()
	now := time.Now().UTC()
	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO participant (id, trip_id, name, name_key, submitted_at, last_active_step, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, 1, ?, ?)
	`), participantID, tripID, name, strings.ToLower(strings.TrimSpace(name)), now, now)
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return participantID
}

// AddTestSelection stores one marked week for a participant
func AddTestSelection(t *testing.T, conn *sqlx.DB, participantID string, week int, status models.Status, rank *int) {
	t.Helper()

	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO selection (participant_id, week_number, status, week_rank, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), participantID, week, status, rank, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test selection: %v", err)
	}
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

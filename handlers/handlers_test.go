// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/cliparse"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/repository"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/testutil"
)

// testServer wires the handlers onto a chi mux the same way the router does,
// so path parameters resolve.
type testServer struct {
	db   *sqlx.DB
	cfg  cliparse.Config
	repo *repository.Repository
	mux  *chi.Mux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	repo := repository.New(db, cfg.ShareCodeSalt)

	trips := NewTripHandler(repo, cfg)
	participants := NewParticipantHandler(repo, cfg)
	results := NewResultsHandler(repo, cfg)
	admin := NewAdminHandler(repo, cfg)

	r := chi.NewRouter()
	r.Get("/health", trips.Health)
	r.Post("/trips", trips.CreateTrip)
	r.Get("/codes/{code}", trips.GetTripByCode)
	r.Get("/trips/{tripID}/group", trips.GetGroup)
	r.Get("/trips/{tripID}/leaderboard", results.GetLeaderboard)
	r.Post("/codes/{code}/join", participants.Join)
	r.Put("/participants/{participantID}/selections", participants.UpsertSelections)
	r.Post("/participants/{participantID}/submit", participants.Submit)
	r.Put("/participants/{participantID}/progress", participants.UpdateProgress)
	r.Post("/trips/{tripID}/lock", admin.RequireAdminKey(admin.Lock))
	r.Post("/trips/{tripID}/unlock", admin.RequireAdminKey(admin.Unlock))
	r.Delete("/trips/{tripID}/participants/{participantID}/submission", admin.RequireAdminKey(admin.ResetSubmission))

	return &testServer{db: db, cfg: cfg, repo: repo, mux: r}
}

func (s *testServer) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, headers)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func adminHeader(key string) map[string]string {
	return map[string]string{"X-Admin-Key": key}
}

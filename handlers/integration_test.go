// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/apperr"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/bridge"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/localstate"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/scheduler"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/session"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/testutil"
)

func newSession(t *testing.T, client bridge.Bridge, store localstate.Store) (*session.Session, *scheduler.ManualClock) {
	t.Helper()
	clock := scheduler.NewManualClock(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	s := session.New(session.Options{
		Bridge:    client,
		Store:     store,
		Scheduler: scheduler.New(clock),
		Year:      2026,
	})
	t.Cleanup(func() { s.Close() })
	return s, clock
}

// TestFullTripWorkflow drives the whole stack:
// 1. Create trip
// 2. Ana marks weeks before joining, then joins (local marks pushed)
// 3. Ben joins, edits, auto-saves and submits
// 4. Ana refreshes and sees the group leaderboard
// 5. Ana rejoins from a fresh device (remote wins)
// 6. Admin locks the trip
// 7. Writes and new names are refused
func TestFullTripWorkflow(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.mux)
	defer srv.Close()

	ctx := context.Background()
	client := bridge.NewClient(srv.URL, 5*time.Second)

	// Step 1: Create a trip
	created, err := client.CreateTrip(ctx, models.CreateTripRequest{
		Name:   "Lake house",
		Year:   2026,
		Window: models.WindowConfig{StartDay: 5, Days: 8},
	})
	if err != nil {
		t.Fatalf("Step 1 - Create trip failed: %v", err)
	}
	code := created.Trip.ShareCode
	t.Logf("Step 1 - Created trip %s with code %s", created.Trip.ID, code)

	// Step 2: Ana previews, then joins
	ana, _ := newSession(t, client, localstate.NewMemoryStore())
	if err := ana.SetStatus(10, models.Available); err != nil {
		t.Fatal(err)
	}
	if _, err := ana.SetRank(10, 1); err != nil {
		t.Fatal(err)
	}
	res, err := ana.Join(ctx, code, "Ana")
	if err != nil {
		t.Fatalf("Step 2 - Ana join failed: %v", err)
	}
	if res.Source != session.SourceLocal {
		t.Errorf("Step 2 - Expected local marks to win, got %s", res.Source)
	}
	ana.Wait()
	if ana.State() != session.Synced {
		t.Fatalf("Step 2 - Expected Synced after push, got %s", ana.State())
	}
	if got := ana.Weeks()[0].WindowLengthDays; got != 8 {
		t.Errorf("Step 2 - Expected trip window of 8 days, got %d", got)
	}

	// Step 3: Ben joins, edits, auto-saves and submits
	ben, benClock := newSession(t, client, localstate.NewMemoryStore())
	if _, err := ben.Join(ctx, code, "Ben"); err != nil {
		t.Fatalf("Step 3 - Ben join failed: %v", err)
	}
	if err := ben.SetStatus(10, models.Maybe); err != nil {
		t.Fatal(err)
	}
	if err := ben.SetStatus(11, models.Available); err != nil {
		t.Fatal(err)
	}
	benClock.Advance(session.DefaultAutosaveDelay)
	if ben.State() != session.Synced {
		t.Fatalf("Step 3 - Expected auto-save to sync, got %s (%v)", ben.State(), ben.Snapshot().LastError)
	}
	if _, err := ben.Submit(ctx); err != nil {
		t.Fatalf("Step 3 - Submit failed: %v", err)
	}

	// Step 4: Ana refreshes and sees both participants
	if err := ana.Refresh(ctx); err != nil {
		t.Fatalf("Step 4 - Refresh failed: %v", err)
	}
	top, ok := ana.TopPick()
	if !ok {
		t.Fatal("Step 4 - Expected a top pick")
	}
	if top.WeekNumber != 10 || top.Score != 100+25+10 {
		t.Errorf("Step 4 - Expected week 10 with score 135, got week %d score %d", top.WeekNumber, top.Score)
	}
	board, err := client.Leaderboard(ctx, created.Trip.ID, 5)
	if err != nil {
		t.Fatalf("Step 4 - Leaderboard failed: %v", err)
	}
	if board.SubmittedCount != 1 || board.ParticipantCount != 2 {
		t.Errorf("Step 4 - Expected 1 of 2 submitted, got %d of %d", board.SubmittedCount, board.ParticipantCount)
	}

	// Step 5: Ana on a fresh device with different local marks
	store := localstate.NewMemoryStore()
	key := localstate.Key{Year: 2026, TripCode: code, Name: "ana"}
	local := []models.Selection{{WeekNumber: 30, Status: models.Maybe}}
	if err := store.Save(ctx, key, localstate.Record{Selections: local}); err != nil {
		t.Fatal(err)
	}
	ana2, _ := newSession(t, client, store)
	res, err = ana2.Join(ctx, code, "ANA")
	if err != nil {
		t.Fatalf("Step 5 - Rejoin failed: %v", err)
	}
	if res.Created || res.Source != session.SourceRemote {
		t.Errorf("Step 5 - Expected existing participant with remote selections, got created=%v source=%s", res.Created, res.Source)
	}
	sels := ana2.Selections()
	if sels[9].Status != models.Available || sels[29].Status != models.Unselected {
		t.Error("Step 5 - Expected server selections to replace local ones")
	}

	// Step 6: Admin locks the trip
	w := s.do("POST", "/trips/"+created.Trip.ID+"/lock", nil, adminHeader(created.AdminKey))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Step 7: Existing participants can read but not write; new names are refused
	if err := ana2.SetStatus(12, models.Available); err != nil {
		t.Fatal(err)
	}
	if err := ana2.Save(ctx); !apperr.Is(err, apperr.CodeLocked) {
		t.Errorf("Step 7 - Expected LOCKED on save, got %v", err)
	}
	if err := ana2.Refresh(ctx); err != nil {
		t.Errorf("Step 7 - Expected reads to work on a locked trip, got %v", err)
	}
	if _, err := ana2.Submit(ctx); err != nil {
		t.Errorf("Step 7 - Expected submit of saved selections on a locked trip, got %v", err)
	}

	cy, _ := newSession(t, client, localstate.NewMemoryStore())
	if _, err := cy.Join(ctx, code, "Cy"); !apperr.Is(err, apperr.CodeLocked) {
		t.Errorf("Step 7 - Expected LOCKED for a new name, got %v", err)
	}
	if cy.State() != session.Anonymous {
		t.Errorf("Step 7 - Expected Cy to stay anonymous, got %s", cy.State())
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/testutil"
)

func TestGetLeaderboard(t *testing.T) {
	s := newTestServer(t)
	tripID, _, _ := testutil.CreateTestTrip(t, s.db, s.cfg, 2026, false)
	ana := testutil.CreateTestParticipant(t, s.db, tripID, "Ana")
	ben := testutil.CreateTestParticipant(t, s.db, tripID, "Ben")
	cy := testutil.CreateTestParticipant(t, s.db, tripID, "Cy")

	testutil.AddTestSelection(t, s.db, ana, 5, models.Available, models.Rank(1))
	testutil.AddTestSelection(t, s.db, ben, 5, models.Available, nil)
	testutil.AddTestSelection(t, s.db, cy, 5, models.Maybe, nil)
	testutil.AddTestSelection(t, s.db, cy, 9, models.Available, models.Rank(1))

	w := s.do("GET", "/trips/"+tripID+"/leaderboard?limit=5", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LeaderboardResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.ParticipantCount != 3 {
		t.Errorf("Expected 3 participants, got %d", resp.ParticipantCount)
	}
	if len(resp.Weeks) != 5 {
		t.Errorf("Expected 5 weeks, got %d", len(resp.Weeks))
	}
	if resp.TopPick == nil {
		t.Fatal("Expected a top pick")
	}
	if resp.TopPick.WeekNumber != 5 || resp.TopPick.Score != 235 {
		t.Errorf("Expected week 5 with score 235, got week %d score %d", resp.TopPick.WeekNumber, resp.TopPick.Score)
	}
	if resp.Weeks[1].WeekNumber != 9 {
		t.Errorf("Expected week 9 second, got %d", resp.Weeks[1].WeekNumber)
	}
	if len(resp.TopPick.People) != 3 {
		t.Errorf("Expected 3 people on week 5, got %d", len(resp.TopPick.People))
	}
}

func TestGetLeaderboard_Empty(t *testing.T) {
	s := newTestServer(t)
	tripID, _, _ := testutil.CreateTestTrip(t, s.db, s.cfg, 2026, false)

	w := s.do("GET", "/trips/"+tripID+"/leaderboard", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LeaderboardResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TopPick != nil {
		t.Error("Expected no top pick without participants")
	}
	if resp.Message == "" {
		t.Error("Expected an explanatory message")
	}
	if len(resp.Weeks) != 10 {
		t.Errorf("Expected default 10 weeks, got %d", len(resp.Weeks))
	}
}

func TestGetLeaderboard_Errors(t *testing.T) {
	s := newTestServer(t)
	tripID, _, _ := testutil.CreateTestTrip(t, s.db, s.cfg, 2026, false)

	testCases := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"bad limit", "/trips/" + tripID + "/leaderboard?limit=abc", http.StatusBadRequest},
		{"limit too large", "/trips/" + tripID + "/leaderboard?limit=53", http.StatusBadRequest},
		{"unknown trip", "/trips/missing/leaderboard", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do("GET", tc.path, nil, nil)
			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}
}

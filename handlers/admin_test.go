// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/testutil"
)

func TestLockUnlock(t *testing.T) {
	s := newTestServer(t)
	tripID, adminKey, code := testutil.CreateTestTrip(t, s.db, s.cfg, 2026, false)

	t.Run("missing admin key", func(t *testing.T) {
		w := s.do("POST", "/trips/"+tripID+"/lock", nil, nil)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("key for another trip", func(t *testing.T) {
		_, otherKey, _ := testutil.CreateTestTrip(t, s.db, s.cfg, 2026, false)
		w := s.do("POST", "/trips/"+tripID+"/lock", nil, adminHeader(otherKey))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("lock refuses new names", func(t *testing.T) {
		w := s.do("POST", "/trips/"+tripID+"/lock", nil, adminHeader(adminKey))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.LockResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Locked {
			t.Error("Expected trip to be locked")
		}

		w = s.do("POST", "/codes/"+code+"/join", models.JoinRequest{Name: "Late"}, nil)
		testutil.AssertStatus(t, w, http.StatusLocked)
	})

	t.Run("unlock admits them again", func(t *testing.T) {
		w := s.do("POST", "/trips/"+tripID+"/unlock", nil, adminHeader(adminKey))
		testutil.AssertStatus(t, w, http.StatusOK)

		w = s.do("POST", "/codes/"+code+"/join", models.JoinRequest{Name: "Late"}, nil)
		testutil.AssertStatus(t, w, http.StatusCreated)
	})
}

func TestResetSubmission(t *testing.T) {
	s := newTestServer(t)
	tripID, adminKey, _ := testutil.CreateTestTrip(t, s.db, s.cfg, 2026, false)
	pid := testutil.CreateTestParticipant(t, s.db, tripID, "Ana")

	w := s.do("POST", "/participants/"+pid+"/submit", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	path := "/trips/" + tripID + "/participants/" + pid + "/submission"
	w = s.do("DELETE", path, nil, adminHeader("wrong"))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = s.do("DELETE", path, nil, adminHeader(adminKey))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	group, err := s.repo.FetchGroupData(context.Background(), tripID)
	if err != nil {
		t.Fatalf("FetchGroupData: %v", err)
	}
	if group.Participants[0].SubmittedAt != nil {
		t.Error("Expected submission to be cleared")
	}

	w = s.do("DELETE", "/trips/"+tripID+"/participants/missing/submission", nil, adminHeader(adminKey))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

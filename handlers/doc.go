// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the weekpick API.

# Handler Types

Each handler is a struct with repository and config dependencies:

  - TripHandler: trip creation, lookup by share code, group data, health
  - ParticipantHandler: join, selection upserts, submission, progress
  - ResultsHandler: server-side leaderboard
  - AdminHandler: lock/unlock and submission reset

Handlers are created via constructor functions:

	tripHandler := handlers.NewTripHandler(repo, cfg)

Path parameters are read with chi.URLParam, so handlers must be mounted on
a chi router.

# Trip Lifecycle

	POST /trips              → CreateTrip (returns admin_key)
	POST /codes/{code}/join  → Join (201 on first join, 200 on rejoin)

Names match case-insensitively within a trip, so joining twice never creates
a second participant.

# Selections

	PUT /participants/{id}/selections → UpsertSelections

The body replaces the participant's whole set. Input is normalized, so
ranks on non-available weeks and weeks outside 1..52 are dropped rather
than rejected.

# Locking

Admin operations require the X-Admin-Key header. A locked trip admits
existing names on join and serves reads, but answers 423 to new names and
selection writes.

# Errors

Repository errors carry an apperr code; middleware.WriteError maps it to the
status and puts the code in the body.
*/
package handlers

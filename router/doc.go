// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the weekpick API.

# Route Registration

NewRouter creates a chi router with request ids, panic recovery and CORS:

	r := router.NewRouter(repo, cfg)

# Endpoints

Health:

	GET /health

Trips:

	POST /trips                        - Create trip (returns admin_key)
	GET  /codes/{code}                 - Trip metadata by share code
	GET  /trips/{tripID}/group         - Participants and stored selections
	GET  /trips/{tripID}/leaderboard   - Ranked weeks and top pick (?limit=N)

Participants (public, keyed by participant id from join):

	POST /codes/{code}/join                     - Join or rejoin by name
	PUT  /participants/{participantID}/selections - Replace selections
	POST /participants/{participantID}/submit     - Mark submitted
	PUT  /participants/{participantID}/progress   - Record wizard step

Admin (requires X-Admin-Key):

	POST   /trips/{tripID}/lock
	POST   /trips/{tripID}/unlock
	DELETE /trips/{tripID}/participants/{participantID}/submission
*/
package router

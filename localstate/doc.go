// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package localstate saves a participant's session on the client so it can
// be resumed after a restart without waiting for the server.
//
// Records are keyed by (year, trip code, name), with the code upper-cased
// and the name compared case-insensitively. A single resume marker names
// the session to reconnect on the next start.
//
// SQLiteStore writes each record as a JSON payload. Selections are read
// back through selection.ParseJSON, so payloads written in older layouts
// still load.
package localstate

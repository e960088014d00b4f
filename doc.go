// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the weekpick API server.

Weekpick helps a group find the best week for a trip. Each participant marks
the 52 weeks of the year as available or maybe and ranks up to five
favourites; the server stores the marks and ranks the weeks for the group.

# Starting the Server

SQLite is the default and needs no setup:

	ADMIN_KEY_SALT=... SHARE_CODE_SALT=... go run .

PostgreSQL:

	go run . -t postgres -d "postgres://..."

Variables in a .env file in the working directory are loaded first; flags
override the environment.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - SHARE_CODE_SALT (-code-salt): Secret for share code generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string (default: file:weekpick.db for sqlite)
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - handlers: HTTP request handlers (trips, participants, results, admin)
  - router: Route definitions on chi
  - middleware: CORS, logging, JSON and error helpers
  - repository: sqlx data access shared by handlers and bridge.Direct
  - aggregate: Week scoring and leaderboard
  - session, poller, scheduler, localstate, bridge: client-side sync engine
  - models: Request/response types
  - auth: Admin keys and share codes
  - db: Connection and schema
  - cliparse: Configuration parsing
  - logging: slog handler setup

The command-line client lives in cmd/weekpick.
*/
package main

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open accepts "sqlite" (modernc.org/sqlite, pure Go) or "postgres" (lib/pq)
and returns an *sqlx.DB:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are limited to one open connection and have foreign keys
enabled.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - trip: share code, year, fixed week window, lock flag
  - participant: one row per (trip, case-folded name)
  - selection: one row per marked week; unselected weeks have no row

# Relationships

	trip 1──* participant
	participant 1──* selection

All foreign keys use ON DELETE CASCADE. A participant can hold each rank at
most once, enforced by UNIQUE (participant_id, week_rank).
*/
package db

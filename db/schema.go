// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver(TypeSQLite, sqlx.QUESTION)
}

// Open connects to the database and verifies the connection.
// Queries are written with ? placeholders and passed through Rebind.
func Open(ctx context.Context, dbType, url string) (*sqlx.DB, error) {
	switch dbType {
	case TypeSQLite, TypePostgres:
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sqlx.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbType == TypeSQLite {
		// One writer at a time; also keeps :memory: databases on one connection.
		conn.SetMaxOpenConns(1)
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Trips
CREATE TABLE IF NOT EXISTS trip (
    id TEXT PRIMARY KEY,
    share_code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    year INTEGER NOT NULL,
    window_start_day INTEGER NOT NULL CHECK (window_start_day >= 0 AND window_start_day <= 6),
    window_days INTEGER NOT NULL CHECK (window_days >= 6 AND window_days <= 9),
    timezone TEXT NOT NULL DEFAULT '',
    locked BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL REFERENCES trip(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    submitted_at TIMESTAMP,
    last_active_step INTEGER NOT NULL DEFAULT 1 CHECK (last_active_step >= 1 AND last_active_step <= 4),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (trip_id, name_key)
);

CREATE INDEX IF NOT EXISTS idx_participant_trip_id ON participant(trip_id);

-- Selections (only available and maybe weeks are stored)
CREATE TABLE IF NOT EXISTS selection (
    participant_id TEXT NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    week_number INTEGER NOT NULL CHECK (week_number >= 1 AND week_number <= 52),
    status TEXT NOT NULL CHECK (status IN ('available', 'maybe')),
    week_rank INTEGER CHECK (week_rank IS NULL OR (week_rank >= 1 AND week_rank <= 5)),
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (participant_id, week_number),
    UNIQUE (participant_id, week_rank)
);
`

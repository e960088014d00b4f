// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package localstate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tidwall/gjson"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/db"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/selection"
)

// SQLiteStore keeps records in a local SQLite file as JSON payloads.
type SQLiteStore struct {
	db *sqlx.DB
}

const localSchema = `
CREATE TABLE IF NOT EXISTS local_session (
    session_key TEXT PRIMARY KEY,
    year INTEGER NOT NULL,
    trip_code TEXT NOT NULL,
    name TEXT NOT NULL,
    payload TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS resume_marker (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    year INTEGER NOT NULL,
    trip_code TEXT NOT NULL,
    name TEXT NOT NULL
);
`

// OpenSQLite opens (creating if needed) the state file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := db.Open(ctx, db.TypeSQLite, path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, localSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create local schema: %w", err)
	}
	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key Key) (Record, bool, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM local_session WHERE session_key = ?`, key.ID())
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to load local session: %w", err)
	}
	return decodeRecord([]byte(payload)), true, nil
}

// decodeRecord never fails: a damaged payload yields whatever fields can be
// read and a valid, possibly empty, set of selections.
func decodeRecord(payload []byte) Record {
	doc := gjson.ParseBytes(payload)

	rec := Record{
		CurrentStep:    int(doc.Get("current_step").Int()),
		HasSavedOnce:   doc.Get("has_saved_once").Bool(),
		IsJoined:       doc.Get("is_joined").Bool(),
		TripID:         doc.Get("trip_id").String(),
		ParticipantID:  doc.Get("participant_id").String(),
		WindowStartDay: int(doc.Get("window_start_day").Int()),
		WindowDays:     int(doc.Get("window_days").Int()),
	}
	if t, err := time.Parse(time.RFC3339Nano, doc.Get("updated_at").String()); err == nil {
		rec.UpdatedAt = t
	}
	if rec.CurrentStep < models.MinStep || rec.CurrentStep > models.MaxStep {
		rec.CurrentStep = models.MinStep
	}

	raw := doc.Get("selections").Raw
	if raw == "" {
		rec.Selections = selection.Empty(models.WeekCount)
	} else {
		rec.Selections = selection.ParseJSON(models.WeekCount, []byte(raw))
	}
	return rec
}

func (s *SQLiteStore) Save(ctx context.Context, key Key, rec Record) error {
	k := key.Normalize()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode local session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO local_session (session_key, year, trip_code, name, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_key) DO UPDATE SET
			name = excluded.name, payload = excluded.payload, updated_at = excluded.updated_at
	`, key.ID(), k.Year, k.TripCode, k.Name, string(payload), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save local session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM local_session WHERE session_key = ?`, key.ID()); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetResume(ctx context.Context, key Key) error {
	k := key.Normalize()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resume_marker (id, year, trip_code, name) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET year = excluded.year, trip_code = excluded.trip_code, name = excluded.name
	`, k.Year, k.TripCode, k.Name)
	if err != nil {
		return fmt.Errorf("failed to set resume marker: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Resume(ctx context.Context) (Key, bool, error) {
	var k Key
	err := s.db.QueryRowxContext(ctx, `SELECT year, trip_code, name FROM resume_marker WHERE id = 1`).
		Scan(&k.Year, &k.TripCode, &k.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Key{}, false, nil
	}
	if err != nil {
		return Key{}, false, fmt.Errorf("failed to read resume marker: %w", err)
	}
	return k, true, nil
}

func (s *SQLiteStore) ClearResume(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM resume_marker`); err != nil {
		return fmt.Errorf("failed to clear resume marker: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

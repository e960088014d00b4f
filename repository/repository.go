// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/apperr"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/auth"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/selection"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/weeks"
)

// Repository is the server side of the persistence boundary.
type Repository struct {
	db       *sqlx.DB
	codeSalt string
	now      func() time.Time
}

// New creates a repository. codeSalt seeds generated share codes.
func New(db *sqlx.DB, codeSalt string) *Repository {
	return &Repository{
		db:       db,
		codeSalt: codeSalt,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

type tripRow struct {
	ID             string    `db:"id"`
	ShareCode      string    `db:"share_code"`
	Name           string    `db:"name"`
	Year           int       `db:"year"`
	WindowStartDay int       `db:"window_start_day"`
	WindowDays     int       `db:"window_days"`
	Timezone       string    `db:"timezone"`
	Locked         bool      `db:"locked"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r tripRow) model() models.Trip {
	return models.Trip{
		ID:        r.ID,
		ShareCode: r.ShareCode,
		Name:      r.Name,
		Year:      r.Year,
		Window:    models.WindowConfig{StartDay: r.WindowStartDay, Days: r.WindowDays},
		Timezone:  r.Timezone,
		Locked:    r.Locked,
		CreatedAt: r.CreatedAt,
	}
}

const tripColumns = `id, share_code, name, year, window_start_day, window_days, timezone, locked, created_at`

const participantColumns = `id, trip_id, name, submitted_at, last_active_step, created_at, updated_at`

// Year bounds accepted for new trips
const (
	MinYear = 2000
	MaxYear = 2100
)

// CreateTrip stores a new trip. A blank share code is generated from the trip
// id; a taken one is a conflict.
func (r *Repository) CreateTrip(ctx context.Context, req models.CreateTripRequest) (models.Trip, error) {
	now := r.now()

	year := req.Year
	if year == 0 {
		year = now.Year()
	}
	if year < MinYear || year > MaxYear {
		return models.Trip{}, apperr.Newf(apperr.CodeValidation, "year must be between %d and %d", MinYear, MaxYear)
	}

	window := req.Window
	if window.Days == 0 && window.StartDay == 0 {
		window = weeks.DefaultWindow()
	}
	if _, corrected := weeks.NormalizeWindow(window); corrected {
		return models.Trip{}, apperr.Newf(apperr.CodeValidation,
			"window must start on day 0-6 and last %d-%d days", models.MinWindowDays, models.MaxWindowDays)
	}

	if len(strings.TrimSpace(req.Name)) > 100 {
		return models.Trip{}, apperr.Validation("name must be at most 100 characters")
	}

	id := uuid.New().String()
	code := models.NormalizeShareCode(req.ShareCode)
	if code == "" {
		code = auth.GenerateShareCode(id, r.codeSalt)
	}
	if len(code) > models.MaxShareCodeLength {
		return models.Trip{}, apperr.Newf(apperr.CodeValidation, "share code must be at most %d characters", models.MaxShareCodeLength)
	}

	trip := models.Trip{
		ID:        id,
		ShareCode: code,
		Name:      strings.TrimSpace(req.Name),
		Year:      year,
		Window:    window,
		Timezone:  strings.TrimSpace(req.Timezone),
		CreatedAt: now,
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO trip (id, share_code, name, year, window_start_day, window_days, timezone, locked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), trip.ID, trip.ShareCode, trip.Name, trip.Year, trip.Window.StartDay, trip.Window.Days, trip.Timezone, false, trip.CreatedAt)
	if isUniqueViolation(err) {
		return models.Trip{}, apperr.Conflict("share code already in use")
	}
	if err != nil {
		return models.Trip{}, apperr.Unexpected(err, "failed to create trip")
	}

	return trip, nil
}

// GetTripByCode looks a trip up by its share code (case-insensitive).
func (r *Repository) GetTripByCode(ctx context.Context, code string) (models.Trip, error) {
	code = models.NormalizeShareCode(code)
	if code == "" {
		return models.Trip{}, apperr.Validation("share code is required")
	}
	return r.getTrip(ctx, r.db, "share_code", code)
}

// GetTrip looks a trip up by id.
func (r *Repository) GetTrip(ctx context.Context, tripID string) (models.Trip, error) {
	return r.getTrip(ctx, r.db, "id", tripID)
}

func (r *Repository) getTrip(ctx context.Context, q sqlx.QueryerContext, column, value string) (models.Trip, error) {
	var row tripRow
	err := sqlx.GetContext(ctx, q, &row, r.db.Rebind(`SELECT `+tripColumns+` FROM trip WHERE `+column+` = ?`), value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, apperr.NotFound("trip")
	}
	if err != nil {
		return models.Trip{}, apperr.Unexpected(err, "failed to query trip")
	}
	return row.model(), nil
}

// Join finds or creates the participant named in req. The trip's stored year
// and window are authoritative; the request's copies are ignored. A locked
// trip admits existing names only.
func (r *Repository) Join(ctx context.Context, req models.JoinRequest) (models.JoinResponse, error) {
	code := models.NormalizeShareCode(req.ShareCode)
	name := models.NormalizeName(req.Name)
	if code == "" {
		return models.JoinResponse{}, apperr.Validation("share code is required")
	}
	if name == "" {
		return models.JoinResponse{}, apperr.Validation("name is required")
	}
	if len(name) > models.MaxNameLength {
		return models.JoinResponse{}, apperr.Newf(apperr.CodeValidation, "name must be at most %d characters", models.MaxNameLength)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.JoinResponse{}, apperr.Unexpected(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	trip, err := r.getTrip(ctx, tx, "share_code", code)
	if err != nil {
		return models.JoinResponse{}, err
	}

	key := models.NameKey(name)
	participant, found, err := r.findParticipant(ctx, tx, trip.ID, key)
	if err != nil {
		return models.JoinResponse{}, err
	}

	created := false
	if !found {
		if trip.Locked {
			return models.JoinResponse{}, apperr.Locked("trip is locked to new participants")
		}
		now := r.now()
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO participant (id, trip_id, name, name_key, submitted_at, last_active_step, created_at, updated_at)
			VALUES (?, ?, ?, ?, NULL, ?, ?, ?)
			ON CONFLICT (trip_id, name_key) DO NOTHING
		`), uuid.New().String(), trip.ID, name, key, models.MinStep, now, now)
		if err != nil {
			return models.JoinResponse{}, apperr.Unexpected(err, "failed to create participant")
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			created = true
		}

		participant, found, err = r.findParticipant(ctx, tx, trip.ID, key)
		if err != nil {
			return models.JoinResponse{}, err
		}
		if !found {
			return models.JoinResponse{}, apperr.Unexpected(nil, "participant vanished after insert")
		}
	}

	rows, err := r.selectionRows(ctx, tx, `participant_id = ?`, participant.ID)
	if err != nil {
		return models.JoinResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.JoinResponse{}, apperr.Unexpected(err, "failed to commit join")
	}

	return models.JoinResponse{
		Trip:        trip,
		Participant: participant,
		Selections:  selectionsFromRows(rows),
		Created:     created,
	}, nil
}

func (r *Repository) findParticipant(ctx context.Context, q sqlx.QueryerContext, tripID, nameKey string) (models.Participant, bool, error) {
	var p models.Participant
	err := sqlx.GetContext(ctx, q, &p, r.db.Rebind(`
		SELECT `+participantColumns+` FROM participant WHERE trip_id = ? AND name_key = ?
	`), tripID, nameKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, false, nil
	}
	if err != nil {
		return models.Participant{}, false, apperr.Unexpected(err, "failed to query participant")
	}
	return p, true, nil
}

// FetchGroupData returns every participant of the trip and their stored
// selections. Participants are ordered by join time.
func (r *Repository) FetchGroupData(ctx context.Context, tripID string) (models.GroupData, error) {
	if _, err := r.GetTrip(ctx, tripID); err != nil {
		return models.GroupData{}, err
	}

	var data models.GroupData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		participants := []models.Participant{}
		err := r.db.SelectContext(gctx, &participants, r.db.Rebind(`
			SELECT `+participantColumns+` FROM participant
			WHERE trip_id = ?
			ORDER BY created_at, name_key
		`), tripID)
		if err != nil {
			return apperr.Unexpected(err, "failed to query participants")
		}
		data.Participants = participants
		return nil
	})

	g.Go(func() error {
		rows, err := r.selectionRows(gctx, r.db,
			`participant_id IN (SELECT id FROM participant WHERE trip_id = ?)`, tripID)
		if err != nil {
			return err
		}
		data.Selections = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.GroupData{}, err
	}
	return withoutOrphans(data), nil
}

// withoutOrphans drops selection rows whose participant was not in the
// participant query. The two reads are not one snapshot, so someone who
// joined in between shows up on the next fetch instead of without a name.
func withoutOrphans(data models.GroupData) models.GroupData {
	known := make(map[string]bool, len(data.Participants))
	for _, p := range data.Participants {
		known[p.ID] = true
	}
	rows := make([]models.SelectionRow, 0, len(data.Selections))
	for _, row := range data.Selections {
		if known[row.ParticipantID] {
			rows = append(rows, row)
		}
	}
	data.Selections = rows
	return data
}

func (r *Repository) selectionRows(ctx context.Context, q sqlx.QueryerContext, where string, args ...interface{}) ([]models.SelectionRow, error) {
	rows := []models.SelectionRow{}
	err := sqlx.SelectContext(ctx, q, &rows, r.db.Rebind(`
		SELECT participant_id, week_number, status, week_rank FROM selection
		WHERE `+where+`
		ORDER BY participant_id, week_number
	`), args...)
	if err != nil {
		return nil, apperr.Unexpected(err, "failed to query selections")
	}
	return rows, nil
}

func selectionsFromRows(rows []models.SelectionRow) []models.Selection {
	sels := make([]models.Selection, 0, len(rows))
	for _, row := range rows {
		sels = append(sels, models.Selection{WeekNumber: row.WeekNumber, Status: row.Status, Rank: row.Rank})
	}
	return selection.FromSelections(models.WeekCount, sels).Selections()
}

// UpsertSelections replaces the participant's stored selections with sels.
// Input is normalized first, so weeks or ranks missing from the payload end
// up cleared. Locked trips refuse the write.
func (r *Repository) UpsertSelections(ctx context.Context, participantID string, sels []models.Selection) ([]models.Selection, error) {
	normalized := selection.FromSelections(models.WeekCount, sels)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Unexpected(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var locked bool
	err = tx.GetContext(ctx, &locked, tx.Rebind(`
		SELECT t.locked FROM participant p JOIN trip t ON t.id = p.trip_id WHERE p.id = ?
	`), participantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("participant")
	}
	if err != nil {
		return nil, apperr.Unexpected(err, "failed to query participant")
	}
	if locked {
		return nil, apperr.Locked("trip is locked")
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM selection WHERE participant_id = ?`), participantID); err != nil {
		return nil, apperr.Unexpected(err, "failed to clear selections")
	}

	now := r.now()
	for _, row := range normalized.Rows(participantID) {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO selection (participant_id, week_number, status, week_rank, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (participant_id, week_number)
			DO UPDATE SET status = excluded.status, week_rank = excluded.week_rank, updated_at = excluded.updated_at
		`), row.ParticipantID, row.WeekNumber, row.Status, row.Rank, now)
		if err != nil {
			return nil, apperr.Unexpected(err, "failed to store selection")
		}
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE participant SET updated_at = ? WHERE id = ?`), now, participantID); err != nil {
		return nil, apperr.Unexpected(err, "failed to touch participant")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Unexpected(err, "failed to commit selections")
	}
	return normalized.Selections(), nil
}

// MarkSubmitted stamps the participant's submission time. Calling it again
// refreshes the timestamp.
func (r *Repository) MarkSubmitted(ctx context.Context, participantID string) (time.Time, error) {
	now := r.now()
	if err := r.updateParticipant(ctx, `submitted_at = ?, updated_at = ?`, participantID, now, now); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

// UpdateProgress records the last wizard step the participant reached.
func (r *Repository) UpdateProgress(ctx context.Context, participantID string, step int) error {
	if step < models.MinStep || step > models.MaxStep {
		return apperr.Newf(apperr.CodeValidation, "step must be between %d and %d", models.MinStep, models.MaxStep)
	}
	return r.updateParticipant(ctx, `last_active_step = ?, updated_at = ?`, participantID, step, r.now())
}

func (r *Repository) updateParticipant(ctx context.Context, set, participantID string, args ...interface{}) error {
	args = append(args, participantID)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE participant SET `+set+` WHERE id = ?`), args...)
	if err != nil {
		return apperr.Unexpected(err, "failed to update participant")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("participant")
	}
	return nil
}

// ResetSubmission clears a participant's submission (admin action).
func (r *Repository) ResetSubmission(ctx context.Context, tripID, participantID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE participant SET submitted_at = NULL, updated_at = ? WHERE id = ? AND trip_id = ?
	`), r.now(), participantID, tripID)
	if err != nil {
		return apperr.Unexpected(err, "failed to reset submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("participant")
	}
	return nil
}

// SetLocked locks or unlocks a trip (admin action).
func (r *Repository) SetLocked(ctx context.Context, tripID string, locked bool) (models.Trip, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE trip SET locked = ? WHERE id = ?`), locked, tripID)
	if err != nil {
		return models.Trip{}, apperr.Unexpected(err, "failed to update trip")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Trip{}, apperr.NotFound("trip")
	}
	return r.GetTrip(ctx, tripID)
}

// Health pings the database.
func (r *Repository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return apperr.Transient(err, "database unavailable")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package localstate

import (
	"context"
	"fmt"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

// Key identifies one locally saved session.
type Key struct {
	Year     int    `json:"year"`
	TripCode string `json:"trip_code"`
	Name     string `json:"name"`
}

// Normalize folds the key the same way the server matches codes and names.
// Name keeps its case for display; ID compares it case-insensitively.
func (k Key) Normalize() Key {
	return Key{
		Year:     k.Year,
		TripCode: models.NormalizeShareCode(k.TripCode),
		Name:     models.NormalizeName(k.Name),
	}
}

// ID is the storage identity of the key.
func (k Key) ID() string {
	n := k.Normalize()
	return fmt.Sprintf("%d|%s|%s", n.Year, n.TripCode, models.NameKey(n.Name))
}

// SameParticipant reports whether k and other name the same person on the
// same trip, whatever year either was saved under.
func (k Key) SameParticipant(other Key) bool {
	a, b := k.Normalize(), other.Normalize()
	return a.TripCode == b.TripCode && models.NameKey(a.Name) == models.NameKey(b.Name)
}

// Valid reports whether the key names a code and a participant.
func (k Key) Valid() bool {
	n := k.Normalize()
	return n.TripCode != "" && n.Name != ""
}

// Record is everything needed to resume a session without a round trip.
type Record struct {
	Selections     []models.Selection `json:"selections"`
	CurrentStep    int                `json:"current_step"`
	HasSavedOnce   bool               `json:"has_saved_once"`
	IsJoined       bool               `json:"is_joined"`
	TripID         string             `json:"trip_id,omitempty"`
	ParticipantID  string             `json:"participant_id,omitempty"`
	WindowStartDay int                `json:"window_start_day"`
	WindowDays     int                `json:"window_days"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Store persists records and the resume marker.
type Store interface {
	Load(ctx context.Context, key Key) (Record, bool, error)
	Save(ctx context.Context, key Key, rec Record) error
	Delete(ctx context.Context, key Key) error
	// SetResume remembers key as the session to reconnect on next start.
	SetResume(ctx context.Context, key Key) error
	Resume(ctx context.Context) (Key, bool, error)
	ClearResume(ctx context.Context) error
	Close() error
}

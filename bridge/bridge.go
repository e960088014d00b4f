// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bridge

import (
	"context"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

// Bridge is the persistence boundary a session talks to. Every error it
// returns carries an apperr code.
type Bridge interface {
	CreateTrip(ctx context.Context, req models.CreateTripRequest) (models.CreateTripResponse, error)
	// Join is idempotent per (trip, name) and never creates a trip.
	Join(ctx context.Context, req models.JoinRequest) (models.JoinResponse, error)
	FetchGroupData(ctx context.Context, tripID string) (models.GroupData, error)
	// UpsertSelections replaces everything stored for the participant.
	UpsertSelections(ctx context.Context, participantID string, sels []models.Selection) error
	MarkSubmitted(ctx context.Context, participantID string) (time.Time, error)
	UpdateProgress(ctx context.Context, participantID string, step int) error
	HealthCheck(ctx context.Context) error
}

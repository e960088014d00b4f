// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bridge

import (
	"context"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/auth"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/repository"
)

// Direct serves a Bridge from an in-process repository.
type Direct struct {
	repo         *repository.Repository
	adminKeySalt string
}

func NewDirect(repo *repository.Repository, adminKeySalt string) *Direct {
	return &Direct{repo: repo, adminKeySalt: adminKeySalt}
}

func (d *Direct) CreateTrip(ctx context.Context, req models.CreateTripRequest) (models.CreateTripResponse, error) {
	trip, err := d.repo.CreateTrip(ctx, req)
	if err != nil {
		return models.CreateTripResponse{}, err
	}
	return models.CreateTripResponse{
		Trip:     trip,
		AdminKey: auth.GenerateAdminKey(trip.ID, d.adminKeySalt),
	}, nil
}

func (d *Direct) Join(ctx context.Context, req models.JoinRequest) (models.JoinResponse, error) {
	return d.repo.Join(ctx, req)
}

func (d *Direct) FetchGroupData(ctx context.Context, tripID string) (models.GroupData, error) {
	return d.repo.FetchGroupData(ctx, tripID)
}

func (d *Direct) UpsertSelections(ctx context.Context, participantID string, sels []models.Selection) error {
	_, err := d.repo.UpsertSelections(ctx, participantID, sels)
	return err
}

func (d *Direct) MarkSubmitted(ctx context.Context, participantID string) (time.Time, error) {
	return d.repo.MarkSubmitted(ctx, participantID)
}

func (d *Direct) UpdateProgress(ctx context.Context, participantID string, step int) error {
	return d.repo.UpdateProgress(ctx, participantID, step)
}

func (d *Direct) HealthCheck(ctx context.Context) error {
	return d.repo.Health(ctx)
}

var _ Bridge = (*Direct)(nil)

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/auth"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/cliparse"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/middleware"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/repository"
)

type TripHandler struct {
	repo *repository.Repository
	cfg  cliparse.Config
}

func NewTripHandler(repo *repository.Repository, cfg cliparse.Config) *TripHandler {
	return &TripHandler{repo: repo, cfg: cfg}
}

// CreateTrip handles POST /trips
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTripRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	trip, err := h.repo.CreateTrip(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("trip created", "trip_id", trip.ID, "share_code", trip.ShareCode, "year", trip.Year)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateTripResponse{
		Trip:     trip,
		AdminKey: auth.GenerateAdminKey(trip.ID, h.cfg.AdminKeySalt),
	})
}

// GetTripByCode handles GET /codes/{code}
func (h *TripHandler) GetTripByCode(w http.ResponseWriter, r *http.Request) {
	trip, err := h.repo.GetTripByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, trip)
}

// GetGroup handles GET /trips/{tripID}/group
func (h *TripHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	data, err := h.repo.FetchGroupData(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, data)
}

// Health handles GET /health
func (h *TripHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Health(r.Context()); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

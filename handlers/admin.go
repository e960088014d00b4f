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

type AdminHandler struct {
	repo *repository.Repository
	cfg  cliparse.Config
}

func NewAdminHandler(repo *repository.Repository, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{repo: repo, cfg: cfg}
}

// RequireAdminKey rejects requests whose X-Admin-Key does not match the
// trip in the path.
func (h *AdminHandler) RequireAdminKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "tripID")
		if err := auth.ValidateAdminKey(tripID, r.Header.Get("X-Admin-Key"), h.cfg.AdminKeySalt); err != nil {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
			return
		}
		next(w, r)
	}
}

// Lock handles POST /trips/{tripID}/lock
func (h *AdminHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.setLocked(w, r, true)
}

// Unlock handles POST /trips/{tripID}/unlock
func (h *AdminHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	h.setLocked(w, r, false)
}

func (h *AdminHandler) setLocked(w http.ResponseWriter, r *http.Request, locked bool) {
	trip, err := h.repo.SetLocked(r.Context(), chi.URLParam(r, "tripID"), locked)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("trip lock changed", "trip_id", trip.ID, "locked", trip.Locked)
	middleware.JSONResponse(w, http.StatusOK, models.LockResponse{TripID: trip.ID, Locked: trip.Locked})
}

// ResetSubmission handles DELETE /trips/{tripID}/participants/{participantID}/submission
func (h *AdminHandler) ResetSubmission(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	participantID := chi.URLParam(r, "participantID")

	if err := h.repo.ResetSubmission(r.Context(), tripID, participantID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	slog.Info("submission reset", "trip_id", tripID, "participant_id", participantID)
	w.WriteHeader(http.StatusNoContent)
}

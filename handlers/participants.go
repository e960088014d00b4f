// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/cliparse"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/middleware"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/repository"
)

type ParticipantHandler struct {
	repo *repository.Repository
	cfg  cliparse.Config
}

func NewParticipantHandler(repo *repository.Repository, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{repo: repo, cfg: cfg}
}

// Join handles POST /codes/{code}/join
// Creates the participant on first use of a name; later joins with the same
// name (any case) return the existing participant and their selections.
func (h *ParticipantHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.ShareCode = chi.URLParam(r, "code")

	resp, err := h.repo.Join(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
		slog.Info("participant joined", "trip_id", resp.Trip.ID, "participant_id", resp.Participant.ID)
	}
	middleware.JSONResponse(w, status, resp)
}

// UpsertSelections handles PUT /participants/{participantID}/selections
// The payload replaces the participant's whole set.
func (h *ParticipantHandler) UpsertSelections(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantID")

	var req models.UpsertSelectionsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sels, err := h.repo.UpsertSelections(r.Context(), participantID, req.Selections)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SelectionsResponse{
		ParticipantID: participantID,
		Selections:    sels,
	})
}

// Submit handles POST /participants/{participantID}/submit
func (h *ParticipantHandler) Submit(w http.ResponseWriter, r *http.Request) {
	participantID := chi.URLParam(r, "participantID")

	at, err := h.repo.MarkSubmitted(r.Context(), participantID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("selections submitted", "participant_id", participantID)
	middleware.JSONResponse(w, http.StatusOK, models.SubmitResponse{ParticipantID: participantID, SubmittedAt: at})
}

// UpdateProgress handles PUT /participants/{participantID}/progress
func (h *ParticipantHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProgressRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.repo.UpdateProgress(r.Context(), chi.URLParam(r, "participantID"), req.Step); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/aggregate"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/cliparse"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/middleware"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/repository"
)

type ResultsHandler struct {
	repo *repository.Repository
	cfg  cliparse.Config
}

func NewResultsHandler(repo *repository.Repository, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{repo: repo, cfg: cfg}
}

// GetLeaderboard handles GET /trips/{tripID}/leaderboard?limit=N
// Aggregates are computed on every request; nothing is cached.
func (h *ResultsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	limit := aggregate.DefaultLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > models.WeekCount {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be between 1 and 52")
			return
		}
		limit = n
	}

	group, err := h.repo.FetchGroupData(r.Context(), tripID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	aggs := aggregate.Compute(group.Selections, group.Participants)
	middleware.JSONResponse(w, http.StatusOK, aggregate.Response(tripID, group, aggs, limit))
}

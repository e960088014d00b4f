// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/cliparse"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/handlers"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/middleware"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/repository"
)

func NewRouter(repo *repository.Repository, cfg cliparse.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	// Initialize handlers
	tripHandler := handlers.NewTripHandler(repo, cfg)
	participantHandler := handlers.NewParticipantHandler(repo, cfg)
	resultsHandler := handlers.NewResultsHandler(repo, cfg)
	adminHandler := handlers.NewAdminHandler(repo, cfg)

	// Health check
	r.Get("/health", tripHandler.Health)

	// Trips
	r.Post("/trips", middleware.WithLogging(tripHandler.CreateTrip))
	r.Get("/codes/{code}", middleware.WithLogging(tripHandler.GetTripByCode))
	r.Get("/trips/{tripID}/group", middleware.WithLogging(tripHandler.GetGroup))
	r.Get("/trips/{tripID}/leaderboard", middleware.WithLogging(resultsHandler.GetLeaderboard))

	// Participants (public)
	r.Post("/codes/{code}/join", middleware.WithLogging(participantHandler.Join))
	r.Put("/participants/{participantID}/selections", middleware.WithLogging(participantHandler.UpsertSelections))
	r.Post("/participants/{participantID}/submit", middleware.WithLogging(participantHandler.Submit))
	r.Put("/participants/{participantID}/progress", middleware.WithLogging(participantHandler.UpdateProgress))

	// Admin operations (X-Admin-Key)
	r.Post("/trips/{tripID}/lock", middleware.WithLogging(adminHandler.RequireAdminKey(adminHandler.Lock)))
	r.Post("/trips/{tripID}/unlock", middleware.WithLogging(adminHandler.RequireAdminKey(adminHandler.Unlock)))
	r.Delete("/trips/{tripID}/participants/{participantID}/submission",
		middleware.WithLogging(adminHandler.RequireAdminKey(adminHandler.ResetSubmission)))

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("weekpick API v1"))
	})

	return r
}

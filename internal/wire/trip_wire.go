package wire

import (
	"trip-sharing/internal/adaptor"
	"trip-sharing/internal/data/repository"
	"trip-sharing/pkg/middleware"
	"trip-sharing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTrip(
	r chi.Router,
	tripHandler *adaptor.TripHandler,
	queueHandler *adaptor.QueueHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/v1/trips - Browse available trips with surge pricing
	r.Get("/api/v1/trips", tripHandler.ListAvailable)

	// GET /api/v1/trips/{id} - Trip details
	r.Get("/api/v1/trips/{id}", tripHandler.Get)

	// GET /api/v1/trips/{id}/pricing - Current price quote for a trip
	r.Get("/api/v1/trips/{id}/pricing", tripHandler.Quote)

	// GET /api/v1/trips/{id}/queue - Waiting list for a trip
	r.Get("/api/v1/trips/{id}/queue", queueHandler.TripStatus)

	// POST /api/v1/pricing/bulk - Quote several trips in one call
	r.Post("/api/v1/pricing/bulk", tripHandler.BulkQuote)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/v1/trips - Publish a new trip
		r.Post("/api/v1/trips", tripHandler.Create)

		// GET /api/v1/me/trips - Trips published by the caller
		r.Get("/api/v1/me/trips", tripHandler.ListMine)

		// PUT /api/v1/trips/{id} - Edit own trip
		r.Put("/api/v1/trips/{id}", tripHandler.Update)

		// PATCH /api/v1/trips/{id}/status - Open/close/complete own trip
		r.Patch("/api/v1/trips/{id}/status", tripHandler.UpdateStatus)

		// POST /api/v1/trips/{id}/pricing/refresh - Recompute and persist pricing
		r.Post("/api/v1/trips/{id}/pricing/refresh", tripHandler.RefreshPricing)
	})
}

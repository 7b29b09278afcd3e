package wire

import (
	"trip-sharing/internal/adaptor"
	"trip-sharing/internal/data/repository"
	"trip-sharing/pkg/middleware"
	"trip-sharing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	// All booking routes require authentication
	r.Route("/api/v1/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/v1/bookings - Reserve seats immediately
		r.Post("/", bookingHandler.Create)

		// GET /api/v1/bookings - Caller's booking history
		r.Get("/", bookingHandler.List)

		// GET /api/v1/bookings/{id} - Booking details
		r.Get("/{id}", bookingHandler.Get)

		// DELETE /api/v1/bookings/{id} - Cancel and free the seats
		r.Delete("/{id}", bookingHandler.Cancel)
	})
}

package wire

import (
	"trip-sharing/internal/adaptor"
	"trip-sharing/internal/data/repository"
	"trip-sharing/pkg/middleware"
	"trip-sharing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireQueue(
	r chi.Router,
	queueHandler *adaptor.QueueHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	// All queue routes require authentication
	r.Route("/api/v1/queue", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/v1/queue - Join the waiting list for a trip
		r.Post("/", queueHandler.Enqueue)

		// DELETE /api/v1/queue/{id} - Withdraw a pending request
		r.Delete("/{id}", queueHandler.Cancel)

		// GET /api/v1/queue/{id}/position - Estimated place in line
		r.Get("/{id}/position", queueHandler.Position)

		// POST /api/v1/queue/process/{tripId} - Run allocation for one trip
		r.Post("/process/{tripId}", queueHandler.ProcessTrip)

		// POST /api/v1/queue/process-all - Run allocation across pending trips
		r.Post("/process-all", queueHandler.ProcessAll)
	})
}

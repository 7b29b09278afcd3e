package wire

import (
	"trip-sharing/internal/adaptor"
	"trip-sharing/internal/data/repository"
	"trip-sharing/pkg/middleware"
	"trip-sharing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoute(
	r chi.Router,
	routeHandler *adaptor.RouteHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Route planning and waypoint lookup are open endpoints

	// GET /api/v1/routes?from=&to= - Cheapest path between two waypoints
	r.Get("/api/v1/routes", routeHandler.Find)

	// GET /api/v1/routes/by-city?from=&to= - Same, resolved by city name
	r.Get("/api/v1/routes/by-city", routeHandler.FindByCity)

	// GET /api/v1/waypoints - All pickup/dropoff points
	r.Get("/api/v1/waypoints", routeHandler.List)

	// GET /api/v1/waypoints/search?q= - Search waypoints by name or city
	r.Get("/api/v1/waypoints/search", routeHandler.Search)

	// ==================== PROTECTED ROUTES ====================
	// Maintaining the reference graph requires a session
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/v1/waypoints - Add a pickup/dropoff point
		r.Post("/api/v1/waypoints", routeHandler.CreateWaypoint)

		// POST /api/v1/segments - Add a directed edge between waypoints
		r.Post("/api/v1/segments", routeHandler.CreateSegment)
	})
}

package usecase

import (
	"trip-sharing/internal/data/repository"
	"trip-sharing/internal/events"
	"trip-sharing/pkg/cache"
	"trip-sharing/pkg/lock"
	"trip-sharing/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Trip    TripService
	Booking BookingService
	Queue   QueueService
	Pricing PricingService
	Route   RouteService
}

// NewService wires the services around one shared keyed lock so the
// direct booking path and the queue path serialize on the same per-trip
// mutex.
func NewService(repo *repository.Repository, config *utils.Config, store cache.Store, bus *events.Bus, log *zap.Logger) *Service {
	locks := lock.NewKeyed()

	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Trip:    NewTripService(repo, store, bus, locks, log),
		Booking: NewBookingService(repo, bus, locks, log),
		Queue:   NewQueueService(repo, bus, locks, log),
		Pricing: NewPricingService(repo, store, bus, log),
		Route:   NewRouteService(repo, store, bus, log),
	}
}

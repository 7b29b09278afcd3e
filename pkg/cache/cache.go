package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Per-namespace TTLs. Pricing is short because occupancy changes with
// every admitted booking; routes are stable until a segment changes.
const (
	TTLTripListings   = 5 * time.Minute
	TTLAvailableTrips = 3 * time.Minute
	TTLPricing        = 2 * time.Minute
	TTLRoutes         = 1 * time.Hour
	TTLWaypointSearch = 30 * time.Minute
)

// Store is the read-through cache used by the services. Values are
// JSON-encoded strings. Invalidate removes every key matching a
// glob-style pattern (e.g. "pricing:*").
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key string, value string, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string)
}

// ==================== KEY BUILDERS ====================

func TripKey(tripID uuid.UUID) string {
	return fmt.Sprintf("trip:%s", tripID)
}

func PricingKey(tripID uuid.UUID) string {
	return fmt.Sprintf("pricing:trip:%s", tripID)
}

func RouteKey(fromID, toID uuid.UUID) string {
	return fmt.Sprintf("route:%s:%s", fromID, toID)
}

func WaypointSearchKey(query string) string {
	return fmt.Sprintf("waypoints_search:%s", query)
}

func AvailableTripsKey(origin, destination string) string {
	return fmt.Sprintf("available_trips:%s:%s", origin, destination)
}

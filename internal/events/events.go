package events

import (
	"context"

	"trip-sharing/pkg/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher receives domain change notifications. Implementations must
// tolerate failures silently; event delivery is best-effort and never
// blocks the calling operation.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Event struct {
	Kind     string    `json:"kind"`
	EntityID uuid.UUID `json:"entity_id"`
	Action   string    `json:"action"`
}

// Bus fans domain changes out to cache invalidation and any attached
// publishers. Every write path reports its side effects here so stale
// cached reads expire immediately instead of waiting out their TTL.
type Bus struct {
	store      cache.Store
	publishers []Publisher
	log        *zap.Logger
}

func NewBus(store cache.Store, log *zap.Logger, publishers ...Publisher) *Bus {
	return &Bus{
		store:      store,
		publishers: publishers,
		log:        log.With(zap.String("component", "events")),
	}
}

func (b *Bus) emit(ctx context.Context, kind string, entityID uuid.UUID, action string) {
	event := Event{Kind: kind, EntityID: entityID, Action: action}
	for _, p := range b.publishers {
		p.Publish(ctx, event)
	}
	b.log.Debug("Domain event emitted",
		zap.String("kind", kind),
		zap.String("entity_id", entityID.String()),
		zap.String("action", action),
	)
}

// TripChanged drops every cached view derived from the trip: listings,
// availability, and its pricing quote.
func (b *Bus) TripChanged(ctx context.Context, tripID uuid.UUID, action string) {
	b.store.Invalidate(ctx, cache.TripKey(tripID))
	b.store.Invalidate(ctx, "trips:*")
	b.store.Invalidate(ctx, "available_trips:*")
	b.store.Invalidate(ctx, cache.PricingKey(tripID))
	b.emit(ctx, "trip", tripID, action)
}

// BookingChanged invalidates the affected trip's views plus the user's
// booking list and the trip's queue snapshots.
func (b *Bus) BookingChanged(ctx context.Context, tripID, userID uuid.UUID, action string) {
	b.TripChanged(ctx, tripID, action)
	b.store.Invalidate(ctx, "user_bookings:"+userID.String()+":*")
	b.store.Invalidate(ctx, "booking_queue:"+tripID.String()+":*")
}

// WaypointChanged invalidates route and waypoint search caches. Routes
// are cached for an hour, so graph edits must flush them eagerly.
func (b *Bus) WaypointChanged(ctx context.Context, waypointID uuid.UUID, action string) {
	b.store.Invalidate(ctx, "waypoints_search:*")
	b.store.Invalidate(ctx, "route:*")
	b.emit(ctx, "waypoint", waypointID, action)
}

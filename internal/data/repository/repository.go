package repository

import (
	"errors"

	"trip-sharing/pkg/database"

	"go.uber.org/zap"
)

// Storage-level rejection reasons surfaced by the allocation
// transaction. The services translate these into queue item failure
// reasons and API responses.
var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrDuplicateBooking  = errors.New("user already has a booking for this trip")
	ErrBookingNotFound   = errors.New("booking not found")

	// ErrStaleQueueItem signals a guarded status transition that matched
	// no row: the item was moved concurrently (for example a user cancel
	// racing a processing pass) and the caller must re-read, not retry.
	ErrStaleQueueItem = errors.New("queue item status changed concurrently")
)

type Repository struct {
	User       UserRepository
	Session    SessionRepository
	Trip       TripRepository
	Booking    BookingRepository
	Allocation AllocationRepository
	Queue      QueueRepository
	Waypoint   WaypointRepository
	Segment    SegmentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		Session:    NewSessionRepository(db, log),
		Trip:       NewTripRepository(db, log),
		Booking:    NewBookingRepository(db, log),
		Allocation: NewAllocationRepository(db, log),
		Queue:      NewQueueRepository(db, log),
		Waypoint:   NewWaypointRepository(db, log),
		Segment:    NewSegmentRepository(db, log),
	}
}

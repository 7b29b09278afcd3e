package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed seat grant. At most one non-cancelled booking
// exists per (user, trip); cancellation is soft, never a delete.
type Booking struct {
	Base
	UserID        uuid.UUID     `db:"user_id"`
	TripID        uuid.UUID     `db:"trip_id"`
	SeatsReserved int           `db:"seats_reserved"`
	BookingTime   time.Time     `db:"booking_time"`
	Status        BookingStatus `db:"status"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusInProgress TripStatus = "in-progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// Trip is a published journey with seat capacity. AvailableSeats is the
// single piece of contended state: it only moves inside the allocator's
// reserve/release transactions, and 0 <= available <= total holds at all
// times.
type Trip struct {
	Base
	UserID          uuid.UUID  `db:"user_id"`
	Origin          string     `db:"origin"`
	Destination     string     `db:"destination"`
	StartTime       time.Time  `db:"start_time"`
	EndTime         time.Time  `db:"end_time"`
	Distance        float64    `db:"distance"`
	TotalSeats      int        `db:"total_seats"`
	AvailableSeats  int        `db:"available_seats"`
	BasePrice       float64    `db:"base_price"`
	SurgeMultiplier float64    `db:"surge_multiplier"`
	FinalPrice      float64    `db:"final_price"`
	Status          TripStatus `db:"status"`
}

// Occupancy returns the booked fraction of total seats.
func (t *Trip) Occupancy() float64 {
	if t.TotalSeats == 0 {
		return 0
	}
	return float64(t.TotalSeats-t.AvailableSeats) / float64(t.TotalSeats)
}

func (t *Trip) HasAvailableSeats(seatsRequested int) bool {
	return t.AvailableSeats >= seatsRequested
}

package usecase

import (
	"time"

	"trip-sharing/internal/data/entity"

	"github.com/google/uuid"
)

// ScoreFactor is one named contribution to a priority score, in the
// order it was applied.
type ScoreFactor struct {
	Name   string
	Points int
}

const loyaltyCap = 50

// PriorityScore computes the admission priority for a seat request.
// It is evaluated once at enqueue time and frozen on the queue item;
// later changes to the inputs never move an item already in the queue.
//
// Policy:
//   - loyalty: 2 points per prior booking, capped at 50
//   - lead time before departure: >24h +30, >12h +20, >6h +10
//   - trip owner: +100 (normally unreachable, the own-trip rule rejects
//     these upstream)
//   - single seat: +5
func PriorityScore(priorBookings int64, now time.Time, trip *entity.Trip, userID uuid.UUID, seatsRequested int) (int, []ScoreFactor) {
	var factors []ScoreFactor

	loyalty := int(priorBookings) * 2
	if loyalty > loyaltyCap {
		loyalty = loyaltyCap
	}
	factors = append(factors, ScoreFactor{Name: "loyalty", Points: loyalty})

	leadHours := trip.StartTime.Sub(now).Hours()
	var lead int
	switch {
	case leadHours > 24:
		lead = 30
	case leadHours > 12:
		lead = 20
	case leadHours > 6:
		lead = 10
	}
	factors = append(factors, ScoreFactor{Name: "lead_time", Points: lead})

	var owner int
	if trip.UserID == userID {
		owner = 100
	}
	factors = append(factors, ScoreFactor{Name: "trip_owner", Points: owner})

	var single int
	if seatsRequested == 1 {
		single = 5
	}
	factors = append(factors, ScoreFactor{Name: "single_seat", Points: single})

	total := 0
	for _, f := range factors {
		total += f.Points
	}
	return total, factors
}

package usecase

import (
	"testing"
	"time"

	"trip-sharing/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func scoreTrip(owner uuid.UUID, start time.Time) *entity.Trip {
	return &entity.Trip{
		Base:      entity.Base{ID: uuid.New()},
		UserID:    owner,
		StartTime: start,
	}
}

func TestPriorityScoreLoyalty(t *testing.T) {
	now := time.Now()
	rider := uuid.New()
	trip := scoreTrip(uuid.New(), now.Add(time.Hour))

	tests := []struct {
		name          string
		priorBookings int64
		want          int
	}{
		{"no history", 0, 0},
		{"five bookings", 5, 10},
		{"cap reached exactly", 25, 50},
		{"cap not exceeded", 200, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := PriorityScore(tt.priorBookings, now, trip, rider, 2)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestPriorityScoreLeadTime(t *testing.T) {
	now := time.Now()
	rider := uuid.New()

	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{"more than a day out", now.Add(30 * time.Hour), 30},
		{"exactly 24h is not more than 24h", now.Add(24 * time.Hour), 20},
		{"half a day out", now.Add(13 * time.Hour), 20},
		{"seven hours out", now.Add(7 * time.Hour), 10},
		{"last minute", now.Add(2 * time.Hour), 0},
		{"already departed", now.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := PriorityScore(0, now, scoreTrip(uuid.New(), tt.start), rider, 2)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestPriorityScoreOwnerBonus(t *testing.T) {
	now := time.Now()
	owner := uuid.New()
	trip := scoreTrip(owner, now.Add(time.Hour))

	score, _ := PriorityScore(0, now, trip, owner, 2)
	assert.Equal(t, 100, score)
}

func TestPriorityScoreSingleSeatBonus(t *testing.T) {
	now := time.Now()
	trip := scoreTrip(uuid.New(), now.Add(time.Hour))

	single, _ := PriorityScore(0, now, trip, uuid.New(), 1)
	double, _ := PriorityScore(0, now, trip, uuid.New(), 2)
	assert.Equal(t, 5, single-double)
}

func TestPriorityScoreCombined(t *testing.T) {
	now := time.Now()
	trip := scoreTrip(uuid.New(), now.Add(48*time.Hour))

	// 10 prior bookings (20) + >24h lead (30) + single seat (5).
	score, factors := PriorityScore(10, now, trip, uuid.New(), 1)
	assert.Equal(t, 55, score)

	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"loyalty", "lead_time", "trip_owner", "single_seat"}, names)
}

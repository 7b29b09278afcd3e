package usecase

import (
	"testing"
	"time"

	"trip-sharing/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday 2026-03-10 14:00 — not rush hour, weekend, late night, or a
// holiday.
var quietTime = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func pricingTrip(total, available int, distance float64) *entity.Trip {
	return &entity.Trip{
		TotalSeats:     total,
		AvailableSeats: available,
		Distance:       distance,
		BasePrice:      100,
	}
}

func TestSurgeMultiplierDemandTiers(t *testing.T) {
	tests := []struct {
		name      string
		available int
		want      float64
	}{
		{"empty trip", 10, 1.0},
		{"half full", 5, 1.15},
		{"seventy percent", 3, 1.3},
		{"nearly full", 1, 1.5},
		{"full", 0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := SurgeMultiplier(pricingTrip(10, tt.available, 40), quietTime)
			assert.InDelta(t, tt.want, m, 0.0001)
		})
	}
}

func TestSurgeMultiplierDistanceTiers(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{50, 1.0},
		{100, 1.05},
		{200, 1.1},
		{500, 1.15},
	}

	for _, tt := range tests {
		m, _ := SurgeMultiplier(pricingTrip(10, 10, tt.distance), quietTime)
		assert.InDelta(t, tt.want, m, 0.0001)
	}
}

func TestSurgeMultiplierTimeFactors(t *testing.T) {
	base := pricingTrip(10, 10, 40)

	morningRush := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	m, _ := SurgeMultiplier(base, morningRush)
	assert.InDelta(t, 1.2, m, 0.0001)

	eveningRush := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	m, _ = SurgeMultiplier(base, eveningRush)
	assert.InDelta(t, 1.2, m, 0.0001)

	saturdayAfternoon := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	m, _ = SurgeMultiplier(base, saturdayAfternoon)
	assert.InDelta(t, 1.15, m, 0.0001)

	lateNight := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	m, _ = SurgeMultiplier(base, lateNight)
	assert.InDelta(t, 1.1, m, 0.0001)

	earlyMorning := time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)
	m, _ = SurgeMultiplier(base, earlyMorning)
	assert.InDelta(t, 1.1, m, 0.0001)
}

func TestSurgeMultiplierHoliday(t *testing.T) {
	base := pricingTrip(10, 10, 40)

	christmas := time.Date(2026, 12, 25, 14, 0, 0, 0, time.UTC)
	m, _ := SurgeMultiplier(base, christmas)
	// Christmas 2026 is a Friday; only the holiday factor applies.
	assert.InDelta(t, 1.3, m, 0.0001)

	newYear := time.Date(2027, 1, 1, 14, 0, 0, 0, time.UTC)
	m, _ = SurgeMultiplier(base, newYear)
	assert.InDelta(t, 1.3, m, 0.0001)
}

func TestSurgeMultiplierAlwaysWithinBounds(t *testing.T) {
	// Sweep extreme combinations; the multiplier must stay in
	// [1.0, 3.0] for every input.
	times := []time.Time{
		quietTime,
		time.Date(2026, 12, 25, 8, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 23, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC), // Saturday
	}
	for _, at := range times {
		for _, available := range []int{0, 1, 5, 10} {
			for _, distance := range []float64{10, 80, 150, 900} {
				m, _ := SurgeMultiplier(pricingTrip(10, available, distance), at)
				assert.GreaterOrEqual(t, m, 1.0)
				assert.LessOrEqual(t, m, 3.0)
			}
		}
	}
}

func TestSurgeFactorOrderAndBreakdown(t *testing.T) {
	_, factors := SurgeMultiplier(pricingTrip(10, 3, 150), quietTime)
	require.Len(t, factors, 7)

	names := make([]string, len(factors))
	sum := 0.0
	for i, f := range factors {
		names[i] = f.Name
		sum += f.Adjustment
	}
	assert.Equal(t, []string{"demand", "rush_hour", "weekend", "late_night", "distance", "weather", "holiday"}, names)
	assert.InDelta(t, 0.4, sum, 0.0001)
}

func TestFinalPriceRounding(t *testing.T) {
	assert.InDelta(t, 115.0, FinalPrice(100, 1.15), 0.0001)
	assert.InDelta(t, 33.34, FinalPrice(28.99, 1.15), 0.0001)
}

package usecase

import (
	"fmt"
	"time"

	"trip-sharing/internal/data/entity"
	"trip-sharing/pkg/utils"
)

const (
	surgeFloor = 1.0
	surgeCeil  = 3.0
)

// Fixed month-day holiday set checked by the holiday factor.
var holidays = map[string]bool{
	"12-25": true,
	"01-01": true,
	"07-04": true,
	"12-31": true,
}

// PriceFactor is one named contribution to the surge multiplier, in the
// order it was applied.
type PriceFactor struct {
	Name       string
	Adjustment float64
}

// SurgeMultiplier computes the demand multiplier for a trip at the
// given instant. The factors are independent and additive on top of a
// 1.0 base; the sum is clamped to [1.0, 3.0].
func SurgeMultiplier(trip *entity.Trip, at time.Time) (float64, []PriceFactor) {
	factors := []PriceFactor{
		demandFactor(trip),
		rushHourFactor(at),
		weekendFactor(at),
		lateNightFactor(at),
		distanceFactor(trip.Distance),
		// Weather is a reserved factor; no provider is wired yet.
		{Name: "weather", Adjustment: 0},
		holidayFactor(at),
	}

	multiplier := surgeFloor
	for _, f := range factors {
		multiplier += f.Adjustment
	}
	if multiplier < surgeFloor {
		multiplier = surgeFloor
	}
	if multiplier > surgeCeil {
		multiplier = surgeCeil
	}
	return multiplier, factors
}

// FinalPrice applies the multiplier to the base price, rounded to
// cents.
func FinalPrice(basePrice, multiplier float64) float64 {
	return utils.Round2(basePrice * multiplier)
}

func demandFactor(trip *entity.Trip) PriceFactor {
	occupancy := trip.Occupancy()
	var adj float64
	switch {
	case occupancy >= 0.9:
		adj = 0.5
	case occupancy >= 0.7:
		adj = 0.3
	case occupancy >= 0.5:
		adj = 0.15
	}
	return PriceFactor{Name: "demand", Adjustment: adj}
}

func rushHourFactor(at time.Time) PriceFactor {
	hour := at.Hour()
	var adj float64
	if (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19) {
		adj = 0.2
	}
	return PriceFactor{Name: "rush_hour", Adjustment: adj}
}

func weekendFactor(at time.Time) PriceFactor {
	var adj float64
	if day := at.Weekday(); day == time.Saturday || day == time.Sunday {
		adj = 0.15
	}
	return PriceFactor{Name: "weekend", Adjustment: adj}
}

func lateNightFactor(at time.Time) PriceFactor {
	hour := at.Hour()
	var adj float64
	if hour >= 22 || hour <= 6 {
		adj = 0.1
	}
	return PriceFactor{Name: "late_night", Adjustment: adj}
}

func distanceFactor(distance float64) PriceFactor {
	var adj float64
	switch {
	case distance <= 50:
		adj = 0
	case distance <= 100:
		adj = 0.05
	case distance <= 200:
		adj = 0.1
	default:
		adj = 0.15
	}
	return PriceFactor{Name: "distance", Adjustment: adj}
}

func holidayFactor(at time.Time) PriceFactor {
	var adj float64
	if holidays[fmt.Sprintf("%02d-%02d", at.Month(), at.Day())] {
		adj = 0.3
	}
	return PriceFactor{Name: "holiday", Adjustment: adj}
}

package response

import (
	"time"

	"trip-sharing/internal/data/entity"
)

type TripResponse struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	Origin          string            `json:"origin"`
	Destination     string            `json:"destination"`
	StartTime       time.Time         `json:"start_time"`
	EndTime         time.Time         `json:"end_time"`
	Distance        float64           `json:"distance"`
	TotalSeats      int               `json:"total_seats"`
	AvailableSeats  int               `json:"available_seats"`
	BasePrice       float64           `json:"base_price"`
	SurgeMultiplier float64           `json:"surge_multiplier"`
	FinalPrice      float64           `json:"final_price"`
	Status          entity.TripStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

func TripToResponse(trip *entity.Trip) *TripResponse {
	return &TripResponse{
		ID:              trip.ID.String(),
		UserID:          trip.UserID.String(),
		Origin:          trip.Origin,
		Destination:     trip.Destination,
		StartTime:       trip.StartTime,
		EndTime:         trip.EndTime,
		Distance:        trip.Distance,
		TotalSeats:      trip.TotalSeats,
		AvailableSeats:  trip.AvailableSeats,
		BasePrice:       trip.BasePrice,
		SurgeMultiplier: trip.SurgeMultiplier,
		FinalPrice:      trip.FinalPrice,
		Status:          trip.Status,
		CreatedAt:       trip.CreatedAt,
	}
}

func TripsToResponse(trips []*entity.Trip) []TripResponse {
	out := make([]TripResponse, len(trips))
	for i, trip := range trips {
		out[i] = *TripToResponse(trip)
	}
	return out
}

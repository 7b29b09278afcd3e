package response

import (
	"time"

	"trip-sharing/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	TripID        string               `json:"trip_id"`
	SeatsReserved int                  `json:"seats_reserved"`
	BookingTime   time.Time            `json:"booking_time"`
	Status        entity.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            booking.ID.String(),
		UserID:        booking.UserID.String(),
		TripID:        booking.TripID.String(),
		SeatsReserved: booking.SeatsReserved,
		BookingTime:   booking.BookingTime,
		Status:        booking.Status,
		CreatedAt:     booking.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		out[i] = *BookingToResponse(booking)
	}
	return out
}

package request

type CreateTripRequest struct {
	Origin      string  `json:"origin" validate:"required,min=2,max=255"`
	Destination string  `json:"destination" validate:"required,min=2,max=255"`
	StartTime   string  `json:"start_time" validate:"required"` // RFC 3339
	EndTime     string  `json:"end_time" validate:"required"`   // RFC 3339
	Distance    float64 `json:"distance" validate:"required,gt=0"`
	TotalSeats  int     `json:"total_seats" validate:"required,min=1,max=100"`
	BasePrice   float64 `json:"base_price" validate:"required,gt=0"`
}

type UpdateTripRequest struct {
	Origin      string  `json:"origin" validate:"omitempty,min=2,max=255"`
	Destination string  `json:"destination" validate:"omitempty,min=2,max=255"`
	StartTime   string  `json:"start_time" validate:"omitempty"`
	EndTime     string  `json:"end_time" validate:"omitempty"`
	Distance    float64 `json:"distance" validate:"omitempty,gt=0"`
	BasePrice   float64 `json:"base_price" validate:"omitempty,gt=0"`
}

type AvailableTripsRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	PaginatedRequest
}

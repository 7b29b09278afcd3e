package request

type FindRouteRequest struct {
	FromWaypointID string `json:"from_waypoint_id" validate:"required,uuid4"`
	ToWaypointID   string `json:"to_waypoint_id" validate:"required,uuid4"`
}

type FindRouteByCityRequest struct {
	FromCity string `json:"from_city" validate:"required,min=2"`
	ToCity   string `json:"to_city" validate:"required,min=2"`
}

type SearchWaypointsRequest struct {
	Query string `json:"query" validate:"required,min=2"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

type CreateWaypointRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	City      string  `json:"city" validate:"required,min=2,max=100"`
	Country   string  `json:"country" validate:"required,min=2,max=100"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

type CreateSegmentRequest struct {
	FromWaypointID string  `json:"from_waypoint_id" validate:"required,uuid4"`
	ToWaypointID   string  `json:"to_waypoint_id" validate:"required,uuid4,nefield=FromWaypointID"`
	Distance       float64 `json:"distance" validate:"required,gt=0"`
	EstimatedTime  int     `json:"estimated_time" validate:"required,gt=0"`
	BasePrice      float64 `json:"base_price" validate:"min=0"`
}

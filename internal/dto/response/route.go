package response

import (
	"trip-sharing/internal/data/entity"
	"trip-sharing/internal/routing"
)

type WaypointResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteSegmentResponse struct {
	FromWaypointID string  `json:"from_waypoint_id"`
	ToWaypointID   string  `json:"to_waypoint_id"`
	Distance       float64 `json:"distance"`
	EstimatedTime  int     `json:"estimated_time"`
	BasePrice      float64 `json:"base_price"`
}

type SegmentResponse struct {
	ID             string  `json:"id"`
	FromWaypointID string  `json:"from_waypoint_id"`
	ToWaypointID   string  `json:"to_waypoint_id"`
	Distance       float64 `json:"distance"`
	EstimatedTime  int     `json:"estimated_time"`
	BasePrice      float64 `json:"base_price"`
	IsActive       bool    `json:"is_active"`
}

type RouteResponse struct {
	Waypoints     []WaypointResponse     `json:"waypoints"`
	Segments      []RouteSegmentResponse `json:"segments"`
	TotalDistance float64                `json:"total_distance"`
	TotalTime     int                    `json:"total_time"`
	TotalPrice    float64                `json:"total_price"`
}

func WaypointToResponse(wp *entity.Waypoint) WaypointResponse {
	return WaypointResponse{
		ID:        wp.ID.String(),
		Name:      wp.Name,
		City:      wp.City,
		Country:   wp.Country,
		Latitude:  wp.Latitude,
		Longitude: wp.Longitude,
	}
}

func WaypointsToResponse(waypoints []*entity.Waypoint) []WaypointResponse {
	out := make([]WaypointResponse, len(waypoints))
	for i, wp := range waypoints {
		out[i] = WaypointToResponse(wp)
	}
	return out
}

func SegmentToResponse(seg *entity.Segment) *SegmentResponse {
	return &SegmentResponse{
		ID:             seg.ID.String(),
		FromWaypointID: seg.FromWaypointID.String(),
		ToWaypointID:   seg.ToWaypointID.String(),
		Distance:       seg.Distance,
		EstimatedTime:  seg.EstimatedTime,
		BasePrice:      seg.BasePrice,
		IsActive:       seg.IsActive,
	}
}

func RouteToResponse(route *routing.Route) *RouteResponse {
	resp := &RouteResponse{
		Waypoints:     WaypointsToResponse(route.Waypoints),
		Segments:      make([]RouteSegmentResponse, len(route.Segments)),
		TotalDistance: route.TotalDistance,
		TotalTime:     route.TotalTime,
		TotalPrice:    route.TotalPrice,
	}
	for i, seg := range route.Segments {
		resp.Segments[i] = RouteSegmentResponse{
			FromWaypointID: seg.FromWaypointID.String(),
			ToWaypointID:   seg.ToWaypointID.String(),
			Distance:       seg.Distance,
			EstimatedTime:  seg.EstimatedTime,
			BasePrice:      seg.BasePrice,
		}
	}
	return resp
}

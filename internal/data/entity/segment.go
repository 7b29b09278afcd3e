package entity

import "github.com/google/uuid"

// Segment is a directed weighted edge between two waypoints. At most one
// active segment exists per ordered (from, to) pair; inactive segments
// are invisible to the route search.
type Segment struct {
	Base
	FromWaypointID uuid.UUID `db:"from_waypoint_id"`
	ToWaypointID   uuid.UUID `db:"to_waypoint_id"`
	Distance       float64   `db:"distance"`
	EstimatedTime  int       `db:"estimated_time"` // minutes
	BasePrice      float64   `db:"base_price"`
	IsActive       bool      `db:"is_active"`
}

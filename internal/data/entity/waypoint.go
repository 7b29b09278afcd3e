package entity

// Waypoint is immutable reference data: a named location the route
// optimizer can path through.
type Waypoint struct {
	Base
	Name      string  `db:"name"`
	City      string  `db:"city"`
	Country   string  `db:"country"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

package routing

import (
	"testing"
	"time"

	"trip-sharing/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWaypoint(name string) *entity.Waypoint {
	return &entity.Waypoint{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name: name,
		City: name,
	}
}

func makeSegment(from, to *entity.Waypoint, distance float64, minutes int, price float64) *entity.Segment {
	return &entity.Segment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FromWaypointID: from.ID,
		ToWaypointID:   to.ID,
		Distance:       distance,
		EstimatedTime:  minutes,
		BasePrice:      price,
		IsActive:       true,
	}
}

func TestShortestPathPrefersLowerTotalDistance(t *testing.T) {
	a := makeWaypoint("A")
	b := makeWaypoint("B")
	c := makeWaypoint("C")

	direct := makeSegment(a, c, 100, 90, 50)
	viaB1 := makeSegment(a, b, 30, 30, 15)
	viaB2 := makeSegment(b, c, 40, 40, 20)

	g := NewGraph(
		[]*entity.Waypoint{a, b, c},
		[]*entity.Segment{direct, viaB1, viaB2},
	)

	route, err := g.ShortestPath(a.ID, c.ID)
	require.NoError(t, err)

	require.Len(t, route.Segments, 2)
	assert.Equal(t, []*entity.Waypoint{a, b, c}, route.Waypoints)
	assert.InDelta(t, 70.0, route.TotalDistance, 0.001)
	assert.Equal(t, 70, route.TotalTime)
	assert.InDelta(t, 35.0, route.TotalPrice, 0.001)
}

func TestShortestPathNoRoute(t *testing.T) {
	a := makeWaypoint("A")
	b := makeWaypoint("B")

	g := NewGraph([]*entity.Waypoint{a, b}, nil)

	_, err := g.ShortestPath(a.ID, b.ID)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestShortestPathUnknownWaypoint(t *testing.T) {
	a := makeWaypoint("A")

	g := NewGraph([]*entity.Waypoint{a}, nil)

	_, err := g.ShortestPath(a.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestShortestPathIgnoresInactiveSegments(t *testing.T) {
	a := makeWaypoint("A")
	b := makeWaypoint("B")

	seg := makeSegment(a, b, 10, 10, 5)
	seg.IsActive = false

	g := NewGraph([]*entity.Waypoint{a, b}, []*entity.Segment{seg})

	_, err := g.ShortestPath(a.ID, b.ID)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestShortestPathRespectsDirection(t *testing.T) {
	a := makeWaypoint("A")
	b := makeWaypoint("B")

	g := NewGraph([]*entity.Waypoint{a, b}, []*entity.Segment{makeSegment(a, b, 10, 10, 5)})

	route, err := g.ShortestPath(a.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, route.Segments, 1)

	_, err = g.ShortestPath(b.ID, a.ID)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestShortestPathSameOriginAndDestination(t *testing.T) {
	a := makeWaypoint("A")
	b := makeWaypoint("B")

	// Even with outgoing edges, a same-waypoint query is not a route.
	g := NewGraph([]*entity.Waypoint{a, b}, []*entity.Segment{makeSegment(a, b, 10, 10, 5)})

	_, err := g.ShortestPath(a.ID, a.ID)
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestShortestPathDeterministicOnEqualDistance(t *testing.T) {
	a := makeWaypoint("A")
	b := makeWaypoint("B")
	c := makeWaypoint("C")
	d := makeWaypoint("D")

	// Two equal-length paths A->B->D and A->C->D. The route picked must
	// be the same across rebuilds of the identical graph.
	segments := []*entity.Segment{
		makeSegment(a, b, 10, 10, 5),
		makeSegment(b, d, 10, 10, 5),
		makeSegment(a, c, 10, 10, 5),
		makeSegment(c, d, 10, 10, 5),
	}
	waypoints := []*entity.Waypoint{a, b, c, d}

	first, err := NewGraph(waypoints, segments).ShortestPath(a.ID, d.ID)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := NewGraph(waypoints, segments).ShortestPath(a.ID, d.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Waypoints, again.Waypoints)
	}
}

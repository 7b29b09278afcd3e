package routing

import (
	"bytes"
	"container/heap"
	"errors"

	"trip-sharing/internal/data/entity"

	"github.com/google/uuid"
)

// ErrNoRoute is returned when no sequence of active segments connects
// the origin to the destination.
var ErrNoRoute = errors.New("no route found between waypoints")

// Route is a shortest path through the waypoint graph, weighted by
// segment distance. Totals are summed over the traversed segments.
type Route struct {
	Waypoints     []*entity.Waypoint
	Segments      []*entity.Segment
	TotalDistance float64
	TotalTime     int
	TotalPrice    float64
}

type edge struct {
	to      uuid.UUID
	segment *entity.Segment
}

// Graph is a directed waypoint graph built from active route segments.
// It is an immutable snapshot; rebuild it when segments change.
type Graph struct {
	waypoints map[uuid.UUID]*entity.Waypoint
	adjacency map[uuid.UUID][]edge
}

func NewGraph(waypoints []*entity.Waypoint, segments []*entity.Segment) *Graph {
	g := &Graph{
		waypoints: make(map[uuid.UUID]*entity.Waypoint, len(waypoints)),
		adjacency: make(map[uuid.UUID][]edge),
	}

	for _, wp := range waypoints {
		g.waypoints[wp.ID] = wp
	}

	for _, seg := range segments {
		if !seg.IsActive {
			continue
		}
		if _, ok := g.waypoints[seg.FromWaypointID]; !ok {
			continue
		}
		if _, ok := g.waypoints[seg.ToWaypointID]; !ok {
			continue
		}
		g.adjacency[seg.FromWaypointID] = append(g.adjacency[seg.FromWaypointID], edge{
			to:      seg.ToWaypointID,
			segment: seg,
		})
	}

	return g
}

// Waypoint returns the waypoint with the given ID, or nil.
func (g *Graph) Waypoint(id uuid.UUID) *entity.Waypoint {
	return g.waypoints[id]
}

// ShortestPath runs Dijkstra's algorithm from origin to destination,
// minimizing total distance. When two frontier nodes have equal
// distance, the one with the lower waypoint ID (bytewise) is settled
// first, so results are deterministic for a given graph.
func (g *Graph) ShortestPath(origin, destination uuid.UUID) (*Route, error) {
	if _, ok := g.waypoints[origin]; !ok {
		return nil, ErrNoRoute
	}
	if _, ok := g.waypoints[destination]; !ok {
		return nil, ErrNoRoute
	}

	// No segment loops back to its own origin (the active-pair
	// constraint rejects them), so a same-waypoint query has no path.
	if origin == destination {
		return nil, ErrNoRoute
	}

	dist := map[uuid.UUID]float64{origin: 0}
	prev := map[uuid.UUID]*entity.Segment{}
	settled := map[uuid.UUID]bool{}

	pq := &nodeQueue{}
	heap.Init(pq)
	heap.Push(pq, &node{id: origin, dist: 0})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*node)
		if settled[current.id] {
			continue
		}
		settled[current.id] = true

		if current.id == destination {
			break
		}

		for _, e := range g.adjacency[current.id] {
			if settled[e.to] {
				continue
			}
			candidate := current.dist + e.segment.Distance
			best, seen := dist[e.to]
			if !seen || candidate < best {
				dist[e.to] = candidate
				prev[e.to] = e.segment
				heap.Push(pq, &node{id: e.to, dist: candidate})
			}
		}
	}

	if !settled[destination] {
		return nil, ErrNoRoute
	}

	return g.buildRoute(origin, destination, prev)
}

func (g *Graph) buildRoute(origin, destination uuid.UUID, prev map[uuid.UUID]*entity.Segment) (*Route, error) {
	var segments []*entity.Segment
	at := destination
	for at != origin {
		seg := prev[at]
		if seg == nil {
			return nil, ErrNoRoute
		}
		segments = append(segments, seg)
		at = seg.FromWaypointID
	}

	// prev walks destination -> origin; reverse into travel order.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	route := &Route{
		Waypoints: []*entity.Waypoint{g.waypoints[origin]},
		Segments:  segments,
	}
	for _, seg := range segments {
		route.Waypoints = append(route.Waypoints, g.waypoints[seg.ToWaypointID])
		route.TotalDistance += seg.Distance
		route.TotalTime += seg.EstimatedTime
		route.TotalPrice += seg.BasePrice
	}

	return route, nil
}

type node struct {
	id   uuid.UUID
	dist float64
}

type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return bytes.Compare(q[i].id[:], q[j].id[:]) < 0
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"trip-sharing/internal/data/entity"
	"trip-sharing/internal/data/repository"
	"trip-sharing/internal/dto/request"
	"trip-sharing/internal/dto/response"
	"trip-sharing/internal/events"
	"trip-sharing/internal/routing"
	"trip-sharing/pkg/cache"
	"trip-sharing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RouteService interface {
	// FindRoute returns the shortest path between two waypoints, or
	// routing.ErrNoRoute when the graph has no connecting path.
	FindRoute(ctx context.Context, fromID, toID string) (*response.RouteResponse, error)
	FindRouteByCityNames(ctx context.Context, fromCity, toCity string) (*response.RouteResponse, error)
	SearchWaypoints(ctx context.Context, req *request.SearchWaypointsRequest) ([]response.WaypointResponse, error)
	ListWaypoints(ctx context.Context) ([]response.WaypointResponse, error)

	// CreateWaypoint and CreateSegment maintain the reference graph.
	// Both invalidate the cached routes touching the changed data.
	CreateWaypoint(ctx context.Context, req *request.CreateWaypointRequest) (*response.WaypointResponse, error)
	CreateSegment(ctx context.Context, req *request.CreateSegmentRequest) (*response.SegmentResponse, error)
}

type routeService struct {
	repo  *repository.Repository
	store cache.Store
	bus   *events.Bus
	log   *zap.Logger
}

func NewRouteService(repo *repository.Repository, store cache.Store, bus *events.Bus, log *zap.Logger) RouteService {
	return &routeService{
		repo:  repo,
		store: store,
		bus:   bus,
		log:   log.With(zap.String("service", "route")),
	}
}

func (s *routeService) FindRoute(ctx context.Context, fromID, toID string) (*response.RouteResponse, error) {
	fromUUID, err := uuid.Parse(fromID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid origin waypoint ID", ErrValidation)
	}
	toUUID, err := uuid.Parse(toID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid destination waypoint ID", ErrValidation)
	}

	key := cache.RouteKey(fromUUID, toUUID)
	var cached response.RouteResponse
	if readCached(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	graph, err := s.buildGraph(ctx)
	if err != nil {
		return nil, err
	}

	route, err := graph.ShortestPath(fromUUID, toUUID)
	if err != nil {
		return nil, err
	}

	resp := response.RouteToResponse(route)
	writeCached(ctx, s.store, key, resp, cache.TTLRoutes)
	return resp, nil
}

func (s *routeService) FindRouteByCityNames(ctx context.Context, fromCity, toCity string) (*response.RouteResponse, error) {
	if fromCity == "" || toCity == "" {
		return nil, fmt.Errorf("%w: both city names are required", ErrValidation)
	}

	from, err := s.repo.Waypoint.FindFirstByCity(ctx, fromCity)
	if err != nil {
		s.log.Error("Failed to resolve origin city", zap.Error(err), zap.String("city", fromCity))
		return nil, fmt.Errorf("resolve origin city: %w", err)
	}
	if from == nil {
		return nil, fmt.Errorf("%w: no waypoint in city %q", ErrWaypointNotFound, fromCity)
	}

	to, err := s.repo.Waypoint.FindFirstByCity(ctx, toCity)
	if err != nil {
		s.log.Error("Failed to resolve destination city", zap.Error(err), zap.String("city", toCity))
		return nil, fmt.Errorf("resolve destination city: %w", err)
	}
	if to == nil {
		return nil, fmt.Errorf("%w: no waypoint in city %q", ErrWaypointNotFound, toCity)
	}

	return s.FindRoute(ctx, from.ID.String(), to.ID.String())
}

func (s *routeService) SearchWaypoints(ctx context.Context, req *request.SearchWaypointsRequest) ([]response.WaypointResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	limit := req.Limit
	if limit < 1 {
		limit = 20
	}

	key := cache.WaypointSearchKey(req.Query)
	var cached []response.WaypointResponse
	if readCached(ctx, s.store, key, &cached) {
		return cached, nil
	}

	waypoints, err := s.repo.Waypoint.Search(ctx, req.Query, limit)
	if err != nil {
		s.log.Error("Failed to search waypoints", zap.Error(err), zap.String("query", req.Query))
		return nil, fmt.Errorf("search waypoints: %w", err)
	}

	resp := response.WaypointsToResponse(waypoints)
	writeCached(ctx, s.store, key, resp, cache.TTLWaypointSearch)
	return resp, nil
}

func (s *routeService) ListWaypoints(ctx context.Context) ([]response.WaypointResponse, error) {
	waypoints, err := s.repo.Waypoint.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list waypoints", zap.Error(err))
		return nil, fmt.Errorf("list waypoints: %w", err)
	}

	return response.WaypointsToResponse(waypoints), nil
}

func (s *routeService) CreateWaypoint(ctx context.Context, req *request.CreateWaypointRequest) (*response.WaypointResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	waypoint := &entity.Waypoint{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      req.Name,
		City:      req.City,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := s.repo.Waypoint.Create(ctx, waypoint); err != nil {
		s.log.Error("Failed to create waypoint", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create waypoint: %w", err)
	}

	s.bus.WaypointChanged(ctx, waypoint.ID, "created")
	s.log.Info("Waypoint created",
		zap.String("waypoint_id", waypoint.ID.String()),
		zap.String("city", waypoint.City))

	resp := response.WaypointToResponse(waypoint)
	return &resp, nil
}

func (s *routeService) CreateSegment(ctx context.Context, req *request.CreateSegmentRequest) (*response.SegmentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	fromUUID, _ := uuid.Parse(req.FromWaypointID)
	toUUID, _ := uuid.Parse(req.ToWaypointID)

	for _, id := range []uuid.UUID{fromUUID, toUUID} {
		wp, err := s.repo.Waypoint.FindByID(ctx, id)
		if err != nil {
			s.log.Error("Failed to check segment endpoint", zap.Error(err), zap.String("waypoint_id", id.String()))
			return nil, fmt.Errorf("check segment endpoint: %w", err)
		}
		if wp == nil {
			return nil, fmt.Errorf("%w: %s", ErrWaypointNotFound, id)
		}
	}

	// One active segment per ordered pair; the partial unique index is
	// the backstop for concurrent creates.
	existing, err := s.repo.Segment.FindActiveBetween(ctx, fromUUID, toUUID)
	if err != nil {
		s.log.Error("Failed to check existing segment", zap.Error(err))
		return nil, fmt.Errorf("check existing segment: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: active segment already exists for this pair", ErrValidation)
	}

	now := time.Now()
	segment := &entity.Segment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FromWaypointID: fromUUID,
		ToWaypointID:   toUUID,
		Distance:       req.Distance,
		EstimatedTime:  req.EstimatedTime,
		BasePrice:      req.BasePrice,
		IsActive:       true,
	}

	if err := s.repo.Segment.Create(ctx, segment); err != nil {
		s.log.Error("Failed to create segment", zap.Error(err))
		return nil, fmt.Errorf("create segment: %w", err)
	}

	s.bus.WaypointChanged(ctx, fromUUID, "segment_added")
	s.log.Info("Route segment created",
		zap.String("segment_id", segment.ID.String()),
		zap.String("from", req.FromWaypointID),
		zap.String("to", req.ToWaypointID))

	return response.SegmentToResponse(segment), nil
}

// buildGraph snapshots the waypoint graph from storage. Routes are
// cached for an hour, so the rebuild cost is paid only on cache misses.
func (s *routeService) buildGraph(ctx context.Context) (*routing.Graph, error) {
	waypoints, err := s.repo.Waypoint.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load waypoints", zap.Error(err))
		return nil, fmt.Errorf("load waypoints: %w", err)
	}

	segments, err := s.repo.Segment.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to load route segments", zap.Error(err))
		return nil, fmt.Errorf("load route segments: %w", err)
	}

	return routing.NewGraph(waypoints, segments), nil
}

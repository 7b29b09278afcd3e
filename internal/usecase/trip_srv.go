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
	"trip-sharing/pkg/cache"
	"trip-sharing/pkg/lock"
	"trip-sharing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripService interface {
	CreateTrip(ctx context.Context, userID string, req *request.CreateTripRequest) (*response.TripResponse, error)
	GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error)
	GetUserTrips(ctx context.Context, userID string, req *request.PaginatedRequest) ([]response.TripResponse, error)
	GetAvailableTrips(ctx context.Context, req *request.AvailableTripsRequest) (*response.PaginatedResponse[response.TripResponse], error)
	UpdateTrip(ctx context.Context, userID, tripID string, req *request.UpdateTripRequest) (*response.TripResponse, error)
	UpdateTripStatus(ctx context.Context, userID, tripID string, status entity.TripStatus) error
}

type tripService struct {
	repo  *repository.Repository
	store cache.Store
	bus   *events.Bus
	locks *lock.Keyed
	log   *zap.Logger
}

func NewTripService(repo *repository.Repository, store cache.Store, bus *events.Bus, locks *lock.Keyed, log *zap.Logger) TripService {
	return &tripService{
		repo:  repo,
		store: store,
		bus:   bus,
		locks: locks,
		log:   log.With(zap.String("service", "trip")),
	}
}

func (s *tripService) CreateTrip(ctx context.Context, userID string, req *request.CreateTripRequest) (*response.TripResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create trip validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time must be RFC 3339", ErrValidation)
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time must be RFC 3339", ErrValidation)
	}
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}

	now := time.Now()
	trip := &entity.Trip{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:         userUUID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		StartTime:      startTime,
		EndTime:        endTime,
		Distance:       req.Distance,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		BasePrice:      req.BasePrice,
		Status:         entity.TripStatusInProgress,
	}

	// Price the empty trip so listings carry a final price immediately.
	multiplier, _ := SurgeMultiplier(trip, trip.StartTime)
	trip.SurgeMultiplier = multiplier
	trip.FinalPrice = FinalPrice(trip.BasePrice, multiplier)

	if err := s.repo.Trip.Create(ctx, trip); err != nil {
		s.log.Error("Failed to create trip", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("create trip: %w", err)
	}

	s.bus.TripChanged(ctx, trip.ID, "created")

	s.log.Info("Trip created",
		zap.String("trip_id", trip.ID.String()),
		zap.String("user_id", userID),
		zap.String("origin", trip.Origin),
		zap.String("destination", trip.Destination))

	return response.TripToResponse(trip), nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error) {
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip ID", ErrValidation)
	}

	key := cache.TripKey(tripUUID)
	var cached response.TripResponse
	if readCached(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	trip, err := s.repo.Trip.FindByID(ctx, tripUUID)
	if err != nil {
		s.log.Error("Failed to find trip", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("find trip: %w", err)
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	resp := response.TripToResponse(trip)
	writeCached(ctx, s.store, key, resp, cache.TTLTripListings)
	return resp, nil
}

func (s *tripService) GetUserTrips(ctx context.Context, userID string, req *request.PaginatedRequest) ([]response.TripResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}

	trips, err := s.repo.Trip.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list user trips", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("list user trips: %w", err)
	}

	return response.TripsToResponse(trips), nil
}

func (s *tripService) GetAvailableTrips(ctx context.Context, req *request.AvailableTripsRequest) (*response.PaginatedResponse[response.TripResponse], error) {
	key := fmt.Sprintf("%s:%d:%d", cache.AvailableTripsKey(req.Origin, req.Destination), req.Page, req.PerPage)
	var cached response.PaginatedResponse[response.TripResponse]
	if readCached(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	trips, err := s.repo.Trip.FindAvailable(ctx, req.Origin, req.Destination, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list available trips", zap.Error(err))
		return nil, fmt.Errorf("list available trips: %w", err)
	}

	total, err := s.repo.Trip.CountAvailable(ctx, req.Origin, req.Destination)
	if err != nil {
		s.log.Error("Failed to count available trips", zap.Error(err))
		return nil, fmt.Errorf("count available trips: %w", err)
	}

	resp := response.NewPaginatedResponse(response.TripsToResponse(trips), req.Page, req.Limit(), total)
	writeCached(ctx, s.store, key, resp, cache.TTLAvailableTrips)
	return resp, nil
}

func (s *tripService) UpdateTrip(ctx context.Context, userID, tripID string, req *request.UpdateTripRequest) (*response.TripResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if req.Origin != "" {
		trip.Origin = req.Origin
	}
	if req.Destination != "" {
		trip.Destination = req.Destination
	}
	if req.StartTime != "" {
		startTime, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: start_time must be RFC 3339", ErrValidation)
		}
		trip.StartTime = startTime
	}
	if req.EndTime != "" {
		endTime, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: end_time must be RFC 3339", ErrValidation)
		}
		trip.EndTime = endTime
	}
	if req.Distance > 0 {
		trip.Distance = req.Distance
	}
	if req.BasePrice > 0 {
		trip.BasePrice = req.BasePrice
	}
	if !trip.EndTime.After(trip.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	trip.UpdatedAt = time.Now()

	// Base price or schedule changes shift the quote inputs.
	multiplier, _ := SurgeMultiplier(trip, trip.StartTime)
	trip.SurgeMultiplier = multiplier
	trip.FinalPrice = FinalPrice(trip.BasePrice, multiplier)

	if err := s.repo.Trip.Update(ctx, trip); err != nil {
		s.log.Error("Failed to update trip", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("update trip: %w", err)
	}

	s.bus.TripChanged(ctx, trip.ID, "updated")
	s.log.Info("Trip updated", zap.String("trip_id", tripID))

	return response.TripToResponse(trip), nil
}

func (s *tripService) UpdateTripStatus(ctx context.Context, userID, tripID string, status entity.TripStatus) error {
	switch status {
	case entity.TripStatusInProgress, entity.TripStatusCompleted, entity.TripStatusCancelled:
	default:
		return fmt.Errorf("%w: unknown trip status %q", ErrValidation, status)
	}

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return err
	}

	// Serialized with allocations so processing never admits into a
	// trip that just closed.
	err = s.locks.Do(trip.ID, func() error {
		return s.repo.Trip.UpdateStatus(ctx, trip.ID, status)
	})
	if err != nil {
		s.log.Error("Failed to update trip status", zap.Error(err), zap.String("trip_id", tripID))
		return fmt.Errorf("update trip status: %w", err)
	}

	s.bus.TripChanged(ctx, trip.ID, "status:"+string(status))
	s.log.Info("Trip status updated",
		zap.String("trip_id", tripID),
		zap.String("status", string(status)))

	return nil
}

func (s *tripService) ownedTrip(ctx context.Context, userID, tripID string) (*entity.Trip, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip ID", ErrValidation)
	}

	trip, err := s.repo.Trip.FindByID(ctx, tripUUID)
	if err != nil {
		s.log.Error("Failed to find trip", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("find trip: %w", err)
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}
	if trip.UserID != userUUID {
		return nil, ErrForbidden
	}

	return trip, nil
}

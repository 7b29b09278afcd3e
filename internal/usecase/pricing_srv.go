package usecase

import (
	"context"
	"fmt"

	"trip-sharing/internal/data/repository"
	"trip-sharing/internal/dto/request"
	"trip-sharing/internal/dto/response"
	"trip-sharing/internal/events"
	"trip-sharing/pkg/cache"
	"trip-sharing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PricingService interface {
	// Quote prices a trip from its current occupancy and schedule.
	// Quotes are cached briefly; any seat movement invalidates them.
	Quote(ctx context.Context, tripID string) (*response.PricingResponse, error)
	BulkQuote(ctx context.Context, req *request.BulkPricingRequest) (*response.BulkPricingResponse, error)

	// RefreshTripPricing recomputes the quote and persists the
	// multiplier and final price onto the trip row.
	RefreshTripPricing(ctx context.Context, tripID string) (*response.PricingResponse, error)
}

type pricingService struct {
	repo  *repository.Repository
	store cache.Store
	bus   *events.Bus
	log   *zap.Logger
}

func NewPricingService(repo *repository.Repository, store cache.Store, bus *events.Bus, log *zap.Logger) PricingService {
	return &pricingService{
		repo:  repo,
		store: store,
		bus:   bus,
		log:   log.With(zap.String("service", "pricing")),
	}
}

func (s *pricingService) Quote(ctx context.Context, tripID string) (*response.PricingResponse, error) {
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip ID", ErrValidation)
	}

	key := cache.PricingKey(tripUUID)
	var cached response.PricingResponse
	if readCached(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	resp, err := s.quoteFresh(ctx, tripUUID)
	if err != nil {
		return nil, err
	}

	writeCached(ctx, s.store, key, resp, cache.TTLPricing)
	return resp, nil
}

func (s *pricingService) BulkQuote(ctx context.Context, req *request.BulkPricingRequest) (*response.BulkPricingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Bulk quote validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	resp := &response.BulkPricingResponse{}
	for _, tripID := range req.TripIDs {
		quote, err := s.Quote(ctx, tripID)
		if err != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[tripID] = err.Error()
			continue
		}
		resp.Quotes = append(resp.Quotes, *quote)
	}

	return resp, nil
}

func (s *pricingService) RefreshTripPricing(ctx context.Context, tripID string) (*response.PricingResponse, error) {
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip ID", ErrValidation)
	}

	resp, err := s.quoteFresh(ctx, tripUUID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Trip.UpdatePricing(ctx, tripUUID, resp.SurgeMultiplier, resp.FinalPrice); err != nil {
		s.log.Error("Failed to persist trip pricing", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("persist trip pricing: %w", err)
	}

	s.bus.TripChanged(ctx, tripUUID, "repriced")
	s.log.Info("Trip pricing refreshed",
		zap.String("trip_id", tripID),
		zap.Float64("surge_multiplier", resp.SurgeMultiplier),
		zap.Float64("final_price", resp.FinalPrice))

	return resp, nil
}

func (s *pricingService) quoteFresh(ctx context.Context, tripUUID uuid.UUID) (*response.PricingResponse, error) {
	trip, err := s.repo.Trip.FindByID(ctx, tripUUID)
	if err != nil {
		s.log.Error("Failed to find trip for quote", zap.Error(err), zap.String("trip_id", tripUUID.String()))
		return nil, fmt.Errorf("find trip: %w", err)
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	// Time-sensitive factors are evaluated against the departure time,
	// not the time of the request.
	multiplier, factors := SurgeMultiplier(trip, trip.StartTime)

	resp := &response.PricingResponse{
		TripID:          trip.ID.String(),
		BasePrice:       trip.BasePrice,
		SurgeMultiplier: multiplier,
		FinalPrice:      FinalPrice(trip.BasePrice, multiplier),
		Factors:         make([]response.PricingFactor, len(factors)),
	}
	for i, f := range factors {
		resp.Factors[i] = response.PricingFactor{Name: f.Name, Adjustment: f.Adjustment}
	}

	return resp, nil
}

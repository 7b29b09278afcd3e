package usecase

import (
	"context"
	"errors"
	"fmt"

	"trip-sharing/internal/data/entity"
	"trip-sharing/internal/data/repository"
	"trip-sharing/internal/dto/request"
	"trip-sharing/internal/dto/response"
	"trip-sharing/internal/events"
	"trip-sharing/internal/observability"
	"trip-sharing/pkg/lock"
	"trip-sharing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking is the immediate admission path: it bypasses the
	// queue but shares the queue's per-trip lock and capacity checks.
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, userID, bookingID string) error
	GetBooking(ctx context.Context, userID, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo  *repository.Repository
	bus   *events.Bus
	locks *lock.Keyed
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, bus *events.Bus, locks *lock.Keyed, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		bus:   bus,
		locks: locks,
		log:   log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	tripUUID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip ID", ErrValidation)
	}

	trip, err := s.repo.Trip.FindByID(ctx, tripUUID)
	if err != nil {
		s.log.Error("Failed to find trip", zap.Error(err), zap.String("trip_id", req.TripID))
		return nil, fmt.Errorf("find trip: %w", err)
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}
	if trip.Status != entity.TripStatusInProgress {
		return nil, ErrTripNotOpen
	}
	if trip.UserID == userUUID {
		return nil, ErrOwnTrip
	}

	// Capacity and the duplicate rule are re-checked inside the
	// reserve transaction; the keyed lock serializes this commit with
	// queue processing on the same trip.
	var booking *entity.Booking
	err = s.locks.Do(tripUUID, func() error {
		var reserveErr error
		booking, reserveErr = s.repo.Allocation.Reserve(ctx, userUUID, tripUUID, req.Seats)
		return reserveErr
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientSeats):
			return nil, ErrInsufficientSeats
		case errors.Is(err, repository.ErrDuplicateBooking):
			return nil, ErrDuplicateBooking
		case errors.Is(err, repository.ErrTripNotFound):
			return nil, ErrTripNotFound
		default:
			s.log.Error("Failed to reserve seats",
				zap.Error(err),
				zap.String("trip_id", req.TripID),
				zap.String("user_id", userID))
			return nil, fmt.Errorf("reserve seats: %w", err)
		}
	}

	observability.BookingsConfirmed.Inc()
	observability.SeatsAllocated.Add(float64(booking.SeatsReserved))
	s.bus.BookingChanged(ctx, tripUUID, userUUID, "created")

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("trip_id", req.TripID),
		zap.String("user_id", userID),
		zap.Int("seats", booking.SeatsReserved))

	return response.BookingToResponse(booking), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID", ErrValidation)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if booking.UserID != userUUID {
		return ErrForbidden
	}
	if booking.Status == entity.BookingStatusCancelled {
		return ErrAlreadyCancelled
	}

	err = s.locks.Do(booking.TripID, func() error {
		return s.repo.Allocation.Release(ctx, bookingUUID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return ErrAlreadyCancelled
		}
		s.log.Error("Failed to release booking", zap.Error(err), zap.String("booking_id", bookingID))
		return fmt.Errorf("release booking: %w", err)
	}

	s.bus.BookingChanged(ctx, booking.TripID, userUUID, "cancelled")
	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("user_id", userID))

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID string) (*response.BookingResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID", ErrValidation)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingUUID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userUUID {
		return nil, ErrForbidden
	}

	return response.BookingToResponse(booking), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) ([]response.BookingResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list user bookings", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("list user bookings: %w", err)
	}

	return response.BookingsToResponse(bookings), nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

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

type QueueService interface {
	// Enqueue accepts a seat request without checking capacity; the
	// item is scored once and admission happens at processing time.
	Enqueue(ctx context.Context, userID string, req *request.EnqueueRequest) (*response.QueueItemResponse, error)

	// ProcessTripQueue admits or rejects every pending item for the
	// trip in priority order. Per-item failures are recorded on the
	// item and counted; the pass itself only errors when the trip's
	// queue cannot be read at all.
	ProcessTripQueue(ctx context.Context, tripID string) (*response.ProcessResultResponse, error)

	// ProcessAllPendingTrips runs a pass over every trip with pending
	// items, up to limit trips. One trip's failure never stops the
	// others.
	ProcessAllPendingTrips(ctx context.Context, limit int) (*response.BatchProcessResponse, error)

	CancelQueueItem(ctx context.Context, userID, queueItemID string) error
	GetQueueStatus(ctx context.Context, tripID string) ([]response.QueueItemResponse, error)
	GetEstimatedPosition(ctx context.Context, queueItemID string) (*response.QueueStatusResponse, error)
	CleanupOldItems(ctx context.Context, daysOld int) (int64, error)
}

type queueService struct {
	repo  *repository.Repository
	bus   *events.Bus
	locks *lock.Keyed
	log   *zap.Logger
}

func NewQueueService(repo *repository.Repository, bus *events.Bus, locks *lock.Keyed, log *zap.Logger) QueueService {
	return &queueService{
		repo:  repo,
		bus:   bus,
		locks: locks,
		log:   log.With(zap.String("service", "queue")),
	}
}

func (s *queueService) Enqueue(ctx context.Context, userID string, req *request.EnqueueRequest) (*response.QueueItemResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Enqueue validation failed", zap.Any("errors", errs))
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
	if trip.UserID == userUUID {
		return nil, ErrOwnTrip
	}

	existing, err := s.repo.Booking.FindActiveByUserAndTrip(ctx, userUUID, tripUUID)
	if err != nil {
		s.log.Error("Failed to check existing booking", zap.Error(err))
		return nil, fmt.Errorf("check existing booking: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateBooking
	}

	active, err := s.repo.Queue.HasActiveForUserAndTrip(ctx, userUUID, tripUUID)
	if err != nil {
		s.log.Error("Failed to check active queue item", zap.Error(err))
		return nil, fmt.Errorf("check active queue item: %w", err)
	}
	if active {
		return nil, ErrDuplicatePending
	}

	priorBookings, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count prior bookings", zap.Error(err))
		return nil, fmt.Errorf("count prior bookings: %w", err)
	}

	now := time.Now()
	score, factors := PriorityScore(priorBookings, now, trip, userUUID, req.Seats)

	item := &entity.QueueItem{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:         userUUID,
		TripID:         tripUUID,
		SeatsRequested: req.Seats,
		PriorityScore:  score,
		Status:         entity.QueueStatusPending,
		QueuedAt:       now,
	}

	if err := s.repo.Queue.Create(ctx, item); err != nil {
		s.log.Error("Failed to create queue item", zap.Error(err))
		return nil, fmt.Errorf("create queue item: %w", err)
	}

	s.log.Info("Seat request queued",
		zap.String("queue_id", item.ID.String()),
		zap.String("trip_id", req.TripID),
		zap.String("user_id", userID),
		zap.Int("seats", req.Seats),
		zap.Int("priority_score", score),
		zap.Any("factors", factors))

	return response.QueueItemToResponse(item), nil
}

func (s *queueService) ProcessTripQueue(ctx context.Context, tripID string) (*response.ProcessResultResponse, error) {
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip ID", ErrValidation)
	}

	start := time.Now()
	defer func() {
		observability.QueueProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	items, err := s.repo.Queue.FindPendingByTrip(ctx, tripUUID)
	if err != nil {
		s.log.Error("Failed to load pending queue items", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("load pending queue items: %w", err)
	}

	result := &response.ProcessResultResponse{TripID: tripID}
	if len(items) == 0 {
		return result, nil
	}

	for _, item := range items {
		s.processItem(ctx, item, result)
	}

	s.log.Info("Queue pass finished",
		zap.String("trip_id", tripID),
		zap.Int("processed", result.Processed),
		zap.Int("completed", result.Completed),
		zap.Int("failed", result.Failed))

	return result, nil
}

// processItem re-checks capacity and commits one item under the trip
// lock. Every processed outcome leaves the item terminal; unexpected
// failures are recorded in the result's error list, never propagated.
func (s *queueService) processItem(ctx context.Context, item *entity.QueueItem, result *response.ProcessResultResponse) {
	if err := s.repo.Queue.MarkProcessing(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrStaleQueueItem) {
			// The item left pending between the fetch and now, most
			// likely a user cancel. Leave it alone.
			s.log.Debug("Skipping queue item no longer pending",
				zap.String("queue_id", item.ID.String()))
			return
		}
		s.log.Error("Failed to mark queue item processing",
			zap.Error(err), zap.String("queue_id", item.ID.String()))
		result.Processed++
		s.captureError(item, err, result)
		s.failItem(ctx, item, err.Error(), result)
		return
	}
	result.Processed++

	var booking *entity.Booking
	err := s.locks.Do(item.TripID, func() error {
		var reserveErr error
		booking, reserveErr = s.repo.Allocation.Reserve(ctx, item.UserID, item.TripID, item.SeatsRequested)
		return reserveErr
	})

	switch {
	case err == nil:
		if markErr := s.repo.Queue.MarkCompleted(ctx, item.ID); markErr != nil {
			// The seats are committed; the stale status is repaired by
			// the duplicate-reservation check on any later pass.
			s.log.Error("Failed to mark queue item completed",
				zap.Error(markErr), zap.String("queue_id", item.ID.String()))
		}
		result.Completed++
		observability.QueueItemsProcessed.WithLabelValues("completed").Inc()
		observability.BookingsConfirmed.Inc()
		observability.SeatsAllocated.Add(float64(booking.SeatsReserved))
		s.bus.BookingChanged(ctx, item.TripID, item.UserID, "queue_admitted")
	case errors.Is(err, repository.ErrInsufficientSeats):
		s.failItem(ctx, item, FailureInsufficientSeats, result)
	case errors.Is(err, repository.ErrDuplicateBooking):
		s.failItem(ctx, item, FailureDuplicateBooking, result)
	case errors.Is(err, repository.ErrTripNotFound):
		s.failItem(ctx, item, "trip no longer exists", result)
	default:
		s.log.Error("Allocation failed for queue item",
			zap.Error(err), zap.String("queue_id", item.ID.String()))
		s.captureError(item, err, result)
		s.failItem(ctx, item, err.Error(), result)
	}
}

func (s *queueService) captureError(item *entity.QueueItem, err error, result *response.ProcessResultResponse) {
	result.Errors = append(result.Errors, response.ProcessItemError{
		QueueItemID: item.ID.String(),
		Error:       err.Error(),
	})
}

func (s *queueService) failItem(ctx context.Context, item *entity.QueueItem, reason string, result *response.ProcessResultResponse) {
	if err := s.repo.Queue.MarkFailed(ctx, item.ID, reason); err != nil {
		s.log.Error("Failed to mark queue item failed",
			zap.Error(err), zap.String("queue_id", item.ID.String()))
	}
	result.Failed++
	observability.QueueItemsProcessed.WithLabelValues("failed").Inc()
}

func (s *queueService) ProcessAllPendingTrips(ctx context.Context, limit int) (*response.BatchProcessResponse, error) {
	if limit < 1 {
		limit = 100
	}

	tripIDs, err := s.repo.Queue.DistinctPendingTripIDs(ctx, limit)
	if err != nil {
		s.log.Error("Failed to discover trips with pending items", zap.Error(err))
		return nil, fmt.Errorf("discover pending trips: %w", err)
	}

	batch := &response.BatchProcessResponse{}
	for _, tripID := range tripIDs {
		result, err := s.ProcessTripQueue(ctx, tripID.String())
		if err != nil {
			s.log.Error("Queue pass failed for trip",
				zap.Error(err), zap.String("trip_id", tripID.String()))
			continue
		}
		batch.TripsProcessed++
		batch.TotalProcessed += result.Processed
		batch.TotalCompleted += result.Completed
		batch.TotalFailed += result.Failed
		batch.Results = append(batch.Results, *result)
	}

	return batch, nil
}

func (s *queueService) CancelQueueItem(ctx context.Context, userID, queueItemID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user ID", ErrValidation)
	}
	itemUUID, err := uuid.Parse(queueItemID)
	if err != nil {
		return fmt.Errorf("%w: invalid queue item ID", ErrValidation)
	}

	item, err := s.repo.Queue.FindByID(ctx, itemUUID)
	if err != nil {
		s.log.Error("Failed to find queue item", zap.Error(err), zap.String("queue_id", queueItemID))
		return fmt.Errorf("find queue item: %w", err)
	}
	if item == nil {
		return ErrQueueItemNotFound
	}
	if item.UserID != userUUID {
		return ErrForbidden
	}
	if item.Status != entity.QueueStatusPending {
		return ErrNotCancellable
	}

	if err := s.repo.Queue.CancelPending(ctx, item.ID, FailureCancelledByUser); err != nil {
		if errors.Is(err, repository.ErrStaleQueueItem) {
			// A processing pass picked the item up after the pending
			// check above; the guarded update refused to overwrite it.
			return ErrNotCancellable
		}
		s.log.Error("Failed to cancel queue item", zap.Error(err), zap.String("queue_id", queueItemID))
		return fmt.Errorf("cancel queue item: %w", err)
	}

	s.log.Info("Queue item cancelled",
		zap.String("queue_id", queueItemID),
		zap.String("user_id", userID))

	return nil
}

func (s *queueService) GetQueueStatus(ctx context.Context, tripID string) ([]response.QueueItemResponse, error) {
	tripUUID, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trip ID", ErrValidation)
	}

	items, err := s.repo.Queue.FindByTrip(ctx, tripUUID)
	if err != nil {
		s.log.Error("Failed to load queue status", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("load queue status: %w", err)
	}

	return response.QueueItemsToResponse(items), nil
}

func (s *queueService) GetEstimatedPosition(ctx context.Context, queueItemID string) (*response.QueueStatusResponse, error) {
	itemUUID, err := uuid.Parse(queueItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid queue item ID", ErrValidation)
	}

	item, err := s.repo.Queue.FindByID(ctx, itemUUID)
	if err != nil {
		s.log.Error("Failed to find queue item", zap.Error(err), zap.String("queue_id", queueItemID))
		return nil, fmt.Errorf("find queue item: %w", err)
	}
	if item == nil {
		return nil, ErrQueueItemNotFound
	}

	resp := &response.QueueStatusResponse{QueueItemResponse: *response.QueueItemToResponse(item)}
	if item.Status != entity.QueueStatusPending {
		return resp, nil
	}

	// Advisory only: the position is a snapshot of the pending set and
	// shifts whenever a higher-priority request arrives.
	ahead, err := s.repo.Queue.CountAheadOf(ctx, item)
	if err != nil {
		s.log.Error("Failed to estimate queue position", zap.Error(err), zap.String("queue_id", queueItemID))
		return nil, fmt.Errorf("estimate queue position: %w", err)
	}
	resp.EstimatedPosition = ahead + 1

	return resp, nil
}

func (s *queueService) CleanupOldItems(ctx context.Context, daysOld int) (int64, error) {
	if daysOld < 1 {
		daysOld = 7
	}

	deleted, err := s.repo.Queue.DeleteTerminalOlderThan(ctx, daysOld)
	if err != nil {
		s.log.Error("Failed to clean up old queue items", zap.Error(err))
		return 0, fmt.Errorf("clean up old queue items: %w", err)
	}

	if deleted > 0 {
		s.log.Info("Old queue items removed", zap.Int64("deleted", deleted))
	}

	return deleted, nil
}

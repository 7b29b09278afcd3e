package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip-sharing/internal/data/entity"
	"trip-sharing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enqueueDirect(store *memoryStore, userID, tripID uuid.UUID, seats, score int, queuedAt time.Time) *entity.QueueItem {
	item := &entity.QueueItem{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: queuedAt, UpdatedAt: queuedAt},
		UserID:         userID,
		TripID:         tripID,
		SeatsRequested: seats,
		PriorityScore:  score,
		Status:         entity.QueueStatusPending,
		QueuedAt:       queuedAt,
	}
	store.mu.Lock()
	store.queue[item.ID] = item
	store.mu.Unlock()
	return item
}

func TestEnqueueRejectsOwnTrip(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	owner := uuid.New()
	trip := seedTrip(store, owner, 4, time.Now().Add(48*time.Hour))

	_, err := svc.Queue.Enqueue(context.Background(), owner.String(), &request.EnqueueRequest{
		TripID: trip.ID.String(),
		Seats:  1,
	})
	assert.ErrorIs(t, err, ErrOwnTrip)
}

func TestEnqueueRejectsDuplicatePending(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	rider := uuid.New()

	req := &request.EnqueueRequest{TripID: trip.ID.String(), Seats: 1}
	_, err := svc.Queue.Enqueue(context.Background(), rider.String(), req)
	require.NoError(t, err)

	_, err = svc.Queue.Enqueue(context.Background(), rider.String(), req)
	assert.ErrorIs(t, err, ErrDuplicatePending)
}

func TestEnqueueRejectsExistingBooking(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	rider := uuid.New()

	_, err := svc.Booking.CreateBooking(context.Background(), rider.String(), &request.CreateBookingRequest{
		TripID: trip.ID.String(),
		Seats:  1,
	})
	require.NoError(t, err)

	_, err = svc.Queue.Enqueue(context.Background(), rider.String(), &request.EnqueueRequest{
		TripID: trip.ID.String(),
		Seats:  1,
	})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestEnqueueAcceptsFullTrip(t *testing.T) {
	// Capacity is not checked at enqueue time; admission is deferred.
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 1, time.Now().Add(48*time.Hour))
	trip.AvailableSeats = 0
	store.addTrip(trip)

	item, err := svc.Queue.Enqueue(context.Background(), uuid.New().String(), &request.EnqueueRequest{
		TripID: trip.ID.String(),
		Seats:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.QueueStatusPending, item.Status)
}

func TestProcessingOrderIsDeterministic(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 10, time.Now().Add(48*time.Hour))

	t1 := time.Now().Add(-3 * time.Minute)
	t2 := time.Now().Add(-2 * time.Minute)
	t3 := time.Now().Add(-1 * time.Minute)

	first := enqueueDirect(store, uuid.New(), trip.ID, 1, 50, t1)
	second := enqueueDirect(store, uuid.New(), trip.ID, 1, 50, t2)
	third := enqueueDirect(store, uuid.New(), trip.ID, 1, 30, t3)

	queueRepo := &fakeQueueRepo{store: store}
	pending, err := queueRepo.FindPendingByTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
	assert.Equal(t, third.ID, pending[2].ID)

	result, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 3, result.Completed)
	assert.Equal(t, 0, result.Failed)
}

func TestAdmissionIsPriorityFair(t *testing.T) {
	// Two seats available; a 2-seat request at score 100 beats a 1-seat
	// request at score 50 even though FIFO would have admitted both.
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 2, time.Now().Add(48*time.Hour))

	low := enqueueDirect(store, uuid.New(), trip.ID, 1, 50, time.Now().Add(-2*time.Minute))
	high := enqueueDirect(store, uuid.New(), trip.ID, 2, 100, time.Now().Add(-1*time.Minute))

	result, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 1, result.Failed)

	highItem, _ := (&fakeQueueRepo{store: store}).FindByID(context.Background(), high.ID)
	assert.Equal(t, entity.QueueStatusCompleted, highItem.Status)

	lowItem, _ := (&fakeQueueRepo{store: store}).FindByID(context.Background(), low.ID)
	assert.Equal(t, entity.QueueStatusFailed, lowItem.Status)
	require.NotNil(t, lowItem.FailureReason)
	assert.Equal(t, "insufficient seats", *lowItem.FailureReason)

	assert.Equal(t, 0, store.trip(trip.ID).AvailableSeats)
}

func TestTwoFullRequestsAdmitHigherScore(t *testing.T) {
	// total=2, available=2; A (score 10) and B (score 90) both want 2
	// seats. B wins, A fails with "insufficient seats".
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 2, time.Now().Add(48*time.Hour))

	userA := uuid.New()
	userB := uuid.New()
	a := enqueueDirect(store, userA, trip.ID, 2, 10, time.Now().Add(-2*time.Minute))
	b := enqueueDirect(store, userB, trip.ID, 2, 90, time.Now().Add(-1*time.Minute))

	result, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 1, result.Failed)

	queueRepo := &fakeQueueRepo{store: store}
	bItem, _ := queueRepo.FindByID(context.Background(), b.ID)
	assert.Equal(t, entity.QueueStatusCompleted, bItem.Status)

	aItem, _ := queueRepo.FindByID(context.Background(), a.ID)
	assert.Equal(t, entity.QueueStatusFailed, aItem.Status)
	assert.Equal(t, "insufficient seats", *aItem.FailureReason)

	final := store.trip(trip.ID)
	assert.Equal(t, 0, final.AvailableSeats)
	assert.Equal(t, final.TotalSeats-final.AvailableSeats, store.confirmedSeats(trip.ID))
}

func TestProcessEmptyQueueIsNoOp(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))

	result, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 4, store.trip(trip.ID).AvailableSeats)
}

func TestProcessingLeavesNoItemPendingOrProcessing(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 1, time.Now().Add(48*time.Hour))

	for i := 0; i < 5; i++ {
		enqueueDirect(store, uuid.New(), trip.ID, 1, i*10, time.Now().Add(time.Duration(-i)*time.Minute))
	}

	_, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)

	items, err := (&fakeQueueRepo{store: store}).FindByTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for _, item := range items {
		assert.True(t, item.IsTerminal(), "item %s left in state %s", item.ID, item.Status)
	}
}

func TestDuplicateReservationDetectedDuringProcessing(t *testing.T) {
	// A direct booking races ahead of the queued request; processing
	// must fail the item with "duplicate reservation".
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	rider := uuid.New()

	item := enqueueDirect(store, rider, trip.ID, 1, 20, time.Now())

	_, err := svc.Booking.CreateBooking(context.Background(), rider.String(), &request.CreateBookingRequest{
		TripID: trip.ID.String(),
		Seats:  1,
	})
	require.NoError(t, err)

	result, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	processed, _ := (&fakeQueueRepo{store: store}).FindByID(context.Background(), item.ID)
	assert.Equal(t, entity.QueueStatusFailed, processed.Status)
	assert.Equal(t, "duplicate reservation", *processed.FailureReason)
}

func TestProcessAllPendingTripsSkipsClosedTrips(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)

	open := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	closed := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	closed.Status = entity.TripStatusCancelled
	store.addTrip(closed)

	enqueueDirect(store, uuid.New(), open.ID, 1, 10, time.Now())
	enqueueDirect(store, uuid.New(), closed.ID, 1, 10, time.Now())

	batch, err := svc.Queue.ProcessAllPendingTrips(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.TripsProcessed)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, open.ID.String(), batch.Results[0].TripID)
}

func TestCancelQueueItem(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	rider := uuid.New()

	item := enqueueDirect(store, rider, trip.ID, 1, 10, time.Now())

	// Only the requester may cancel.
	err := svc.Queue.CancelQueueItem(context.Background(), uuid.New().String(), item.ID.String())
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Queue.CancelQueueItem(context.Background(), rider.String(), item.ID.String())
	require.NoError(t, err)

	cancelled, _ := (&fakeQueueRepo{store: store}).FindByID(context.Background(), item.ID)
	assert.Equal(t, entity.QueueStatusFailed, cancelled.Status)
	assert.Equal(t, "cancelled by user", *cancelled.FailureReason)

	// Terminal items are no longer cancellable.
	err = svc.Queue.CancelQueueItem(context.Background(), rider.String(), item.ID.String())
	assert.ErrorIs(t, err, ErrNotCancellable)

	// Seats were never committed, so capacity is untouched.
	assert.Equal(t, 4, store.trip(trip.ID).AvailableSeats)
}

func TestEstimatedPositionMatchesProcessingOrder(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 10, time.Now().Add(48*time.Hour))

	t1 := time.Now().Add(-3 * time.Minute)
	t2 := time.Now().Add(-2 * time.Minute)
	t3 := time.Now().Add(-1 * time.Minute)

	first := enqueueDirect(store, uuid.New(), trip.ID, 1, 50, t1)
	second := enqueueDirect(store, uuid.New(), trip.ID, 1, 50, t2)
	third := enqueueDirect(store, uuid.New(), trip.ID, 1, 30, t3)

	for i, item := range []*entity.QueueItem{first, second, third} {
		status, err := svc.Queue.GetEstimatedPosition(context.Background(), item.ID.String())
		require.NoError(t, err)
		assert.Equal(t, i+1, status.EstimatedPosition)
	}
}

func TestCleanupOldItemsKeepsRecentAndPending(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))

	oldTerminal := enqueueDirect(store, uuid.New(), trip.ID, 1, 10, time.Now())
	oldPending := enqueueDirect(store, uuid.New(), trip.ID, 1, 10, time.Now())
	recent := enqueueDirect(store, uuid.New(), trip.ID, 1, 10, time.Now())

	store.mu.Lock()
	tenDaysAgo := time.Now().AddDate(0, 0, -10)
	store.queue[oldTerminal.ID].Status = entity.QueueStatusFailed
	store.queue[oldTerminal.ID].CreatedAt = tenDaysAgo
	store.queue[oldPending.ID].CreatedAt = tenDaysAgo
	store.queue[recent.ID].Status = entity.QueueStatusCompleted
	store.mu.Unlock()

	deleted, err := svc.Queue.CleanupOldItems(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	queueRepo := &fakeQueueRepo{store: store}
	gone, _ := queueRepo.FindByID(context.Background(), oldTerminal.ID)
	assert.Nil(t, gone)

	keptPending, _ := queueRepo.FindByID(context.Background(), oldPending.ID)
	assert.NotNil(t, keptPending)

	keptRecent, _ := queueRepo.FindByID(context.Background(), recent.ID)
	assert.NotNil(t, keptRecent)
}

func TestUnexpectedAllocationFailureIsReported(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	item := enqueueDirect(store, uuid.New(), trip.ID, 1, 10, time.Now())

	store.reserveErr = errors.New("connection reset by peer")

	result, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, item.ID.String(), result.Errors[0].QueueItemID)
	assert.Contains(t, result.Errors[0].Error, "connection reset")

	// Business rejections stay plain failures; the error list carries
	// only backend faults.
	store.reserveErr = nil
	oversized := enqueueDirect(store, uuid.New(), trip.ID, 10, 10, time.Now())

	result, err = svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.Errors)

	refused, _ := (&fakeQueueRepo{store: store}).FindByID(context.Background(), oversized.ID)
	assert.Equal(t, "insufficient seats", *refused.FailureReason)
}

func TestBatchTotalsAggregateAcrossTrips(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	first := seedTrip(store, uuid.New(), 1, time.Now().Add(48*time.Hour))
	second := seedTrip(store, uuid.New(), 2, time.Now().Add(48*time.Hour))

	enqueueDirect(store, uuid.New(), first.ID, 1, 30, time.Now())
	enqueueDirect(store, uuid.New(), first.ID, 1, 10, time.Now())
	enqueueDirect(store, uuid.New(), second.ID, 2, 10, time.Now())

	batch, err := svc.Queue.ProcessAllPendingTrips(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.TripsProcessed)
	assert.Equal(t, 3, batch.TotalProcessed)
	assert.Equal(t, 2, batch.TotalCompleted)
	assert.Equal(t, 1, batch.TotalFailed)
}

func TestProcessingSkipsItemCancelledMidPass(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	item := enqueueDirect(store, uuid.New(), trip.ID, 2, 10, time.Now())

	// The rider withdraws between the pending fetch and the guarded
	// claim; the pass must leave the item alone.
	reason := "cancelled by user"
	store.afterFindPending = func() {
		store.afterFindPending = nil
		store.mu.Lock()
		store.queue[item.ID].Status = entity.QueueStatusFailed
		store.queue[item.ID].FailureReason = &reason
		store.mu.Unlock()
	}

	result, err := svc.Queue.ProcessTripQueue(context.Background(), trip.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Completed)
	assert.Equal(t, 0, result.Failed)

	withdrawn, _ := (&fakeQueueRepo{store: store}).FindByID(context.Background(), item.ID)
	assert.Equal(t, entity.QueueStatusFailed, withdrawn.Status)
	assert.Equal(t, "cancelled by user", *withdrawn.FailureReason)
	assert.Equal(t, 4, store.trip(trip.ID).AvailableSeats)
}

func TestCancelLosesRaceToProcessingPass(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	trip := seedTrip(store, uuid.New(), 4, time.Now().Add(48*time.Hour))
	rider := uuid.New()
	item := enqueueDirect(store, rider, trip.ID, 1, 10, time.Now())

	// A processing pass claims the item right after the cancel reads
	// it as still pending; the guarded update must not overwrite it.
	store.afterFindByID = func() {
		store.afterFindByID = nil
		store.mu.Lock()
		store.queue[item.ID].Status = entity.QueueStatusProcessing
		store.mu.Unlock()
	}

	err := svc.Queue.CancelQueueItem(context.Background(), rider.String(), item.ID.String())
	assert.ErrorIs(t, err, ErrNotCancellable)

	claimed, _ := (&fakeQueueRepo{store: store}).FindByID(context.Background(), item.ID)
	assert.Equal(t, entity.QueueStatusProcessing, claimed.Status)
}

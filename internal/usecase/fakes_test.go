package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"trip-sharing/internal/data/entity"
	"trip-sharing/internal/data/repository"
	"trip-sharing/internal/events"
	"trip-sharing/pkg/cache"
	"trip-sharing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memoryStore holds trips, bookings, and queue items behind one mutex
// so the fake allocator can mimic the transactional reserve/release
// semantics of the real storage layer.
type memoryStore struct {
	mu       sync.Mutex
	trips    map[uuid.UUID]*entity.Trip
	bookings map[uuid.UUID]*entity.Booking
	queue    map[uuid.UUID]*entity.QueueItem
	users    map[uuid.UUID]*entity.User

	// reserveErr, when set, makes every Reserve call fail with it.
	reserveErr error

	// Race hooks: run after the queue repository reads, outside the
	// store lock, so a test can move an item between a fetch and the
	// guarded update that follows it.
	afterFindPending func()
	afterFindByID    func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		trips:    make(map[uuid.UUID]*entity.Trip),
		bookings: make(map[uuid.UUID]*entity.Booking),
		queue:    make(map[uuid.UUID]*entity.QueueItem),
		users:    make(map[uuid.UUID]*entity.User),
	}
}

func (m *memoryStore) addTrip(trip *entity.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *trip
	m.trips[trip.ID] = &copied
}

func (m *memoryStore) trip(id uuid.UUID) *entity.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trips[id]; ok {
		copied := *t
		return &copied
	}
	return nil
}

func (m *memoryStore) confirmedSeats(tripID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.bookings {
		if b.TripID == tripID && b.Status == entity.BookingStatusConfirmed {
			total += b.SeatsReserved
		}
	}
	return total
}

// ==================== TRIP ====================

type fakeTripRepo struct{ store *memoryStore }

func (f *fakeTripRepo) Create(_ context.Context, trip *entity.Trip) error {
	f.store.addTrip(trip)
	return nil
}

func (f *fakeTripRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Trip, error) {
	return f.store.trip(id), nil
}

func (f *fakeTripRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Trip, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*entity.Trip
	for _, t := range f.store.trips {
		if t.UserID == userID {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) Update(_ context.Context, trip *entity.Trip) error {
	f.store.addTrip(trip)
	return nil
}

func (f *fakeTripRepo) UpdateStatus(_ context.Context, tripID uuid.UUID, status entity.TripStatus) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if t, ok := f.store.trips[tripID]; ok {
		t.Status = status
	}
	return nil
}

func (f *fakeTripRepo) UpdatePricing(_ context.Context, tripID uuid.UUID, surge, final float64) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if t, ok := f.store.trips[tripID]; ok {
		t.SurgeMultiplier = surge
		t.FinalPrice = final
	}
	return nil
}

func (f *fakeTripRepo) FindAvailable(_ context.Context, origin, destination string, limit, offset int) ([]*entity.Trip, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*entity.Trip
	for _, t := range f.store.trips {
		if t.AvailableSeats > 0 && t.Status == entity.TripStatusInProgress {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) CountAvailable(ctx context.Context, origin, destination string) (int64, error) {
	trips, _ := f.FindAvailable(ctx, origin, destination, 0, 0)
	return int64(len(trips)), nil
}

// ==================== BOOKING ====================

type fakeBookingRepo struct{ store *memoryStore }

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if b, ok := f.store.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.store.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var n int64
	for _, b := range f.store.bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) FindActiveByUserAndTrip(_ context.Context, userID, tripID uuid.UUID) (*entity.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, b := range f.store.bookings {
		if b.UserID == userID && b.TripID == tripID && b.Status != entity.BookingStatusCancelled {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindConfirmedByTripID(_ context.Context, tripID uuid.UUID) ([]*entity.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.store.bookings {
		if b.TripID == tripID && b.Status == entity.BookingStatusConfirmed {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ==================== ALLOCATION ====================

type fakeAllocationRepo struct{ store *memoryStore }

func (f *fakeAllocationRepo) Reserve(_ context.Context, userID, tripID uuid.UUID, seats int) (*entity.Booking, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if f.store.reserveErr != nil {
		return nil, f.store.reserveErr
	}

	trip, ok := f.store.trips[tripID]
	if !ok {
		return nil, repository.ErrTripNotFound
	}
	if trip.AvailableSeats < seats {
		return nil, repository.ErrInsufficientSeats
	}
	for _, b := range f.store.bookings {
		if b.UserID == userID && b.TripID == tripID && b.Status != entity.BookingStatusCancelled {
			return nil, repository.ErrDuplicateBooking
		}
	}

	now := time.Now()
	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:        userID,
		TripID:        tripID,
		SeatsReserved: seats,
		BookingTime:   now,
		Status:        entity.BookingStatusConfirmed,
	}
	f.store.bookings[booking.ID] = booking
	trip.AvailableSeats -= seats

	copied := *booking
	return &copied, nil
}

func (f *fakeAllocationRepo) Release(_ context.Context, bookingID uuid.UUID) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	booking, ok := f.store.bookings[bookingID]
	if !ok || booking.Status != entity.BookingStatusConfirmed {
		return repository.ErrBookingNotFound
	}
	booking.Status = entity.BookingStatusCancelled
	if trip, ok := f.store.trips[booking.TripID]; ok {
		trip.AvailableSeats += booking.SeatsReserved
	}
	return nil
}

// ==================== QUEUE ====================

type fakeQueueRepo struct{ store *memoryStore }

func (f *fakeQueueRepo) Create(_ context.Context, item *entity.QueueItem) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	copied := *item
	f.store.queue[item.ID] = &copied
	return nil
}

func (f *fakeQueueRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.QueueItem, error) {
	f.store.mu.Lock()
	var found *entity.QueueItem
	if item, ok := f.store.queue[id]; ok {
		copied := *item
		found = &copied
	}
	f.store.mu.Unlock()
	if f.store.afterFindByID != nil {
		f.store.afterFindByID()
	}
	return found, nil
}

func (f *fakeQueueRepo) FindPendingByTrip(_ context.Context, tripID uuid.UUID) ([]*entity.QueueItem, error) {
	f.store.mu.Lock()
	var out []*entity.QueueItem
	for _, item := range f.store.queue {
		if item.TripID == tripID && item.Status == entity.QueueStatusPending {
			copied := *item
			out = append(out, &copied)
		}
	}
	f.store.mu.Unlock()
	sortQueueItems(out)
	if f.store.afterFindPending != nil {
		f.store.afterFindPending()
	}
	return out, nil
}

func (f *fakeQueueRepo) FindByTrip(_ context.Context, tripID uuid.UUID) ([]*entity.QueueItem, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*entity.QueueItem
	for _, item := range f.store.queue {
		if item.TripID == tripID {
			copied := *item
			out = append(out, &copied)
		}
	}
	sortQueueItems(out)
	return out, nil
}

func (f *fakeQueueRepo) FindPendingByUser(_ context.Context, userID uuid.UUID) ([]*entity.QueueItem, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*entity.QueueItem
	for _, item := range f.store.queue {
		if item.UserID == userID && item.Status == entity.QueueStatusPending {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeQueueRepo) HasActiveForUserAndTrip(_ context.Context, userID, tripID uuid.UUID) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, item := range f.store.queue {
		if item.UserID == userID && item.TripID == tripID &&
			(item.Status == entity.QueueStatusPending || item.Status == entity.QueueStatusProcessing) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeQueueRepo) MarkProcessing(_ context.Context, id uuid.UUID) error {
	return f.setStatus(id, entity.QueueStatusProcessing, nil, entity.QueueStatusPending)
}

func (f *fakeQueueRepo) MarkCompleted(_ context.Context, id uuid.UUID) error {
	return f.setStatus(id, entity.QueueStatusCompleted, nil, entity.QueueStatusProcessing)
}

func (f *fakeQueueRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	return f.setStatus(id, entity.QueueStatusFailed, &reason,
		entity.QueueStatusPending, entity.QueueStatusProcessing)
}

func (f *fakeQueueRepo) CancelPending(_ context.Context, id uuid.UUID, reason string) error {
	return f.setStatus(id, entity.QueueStatusFailed, &reason, entity.QueueStatusPending)
}

// setStatus mirrors the guarded SQL updates: the transition only
// applies when the item is currently in one of the allowed statuses.
func (f *fakeQueueRepo) setStatus(id uuid.UUID, status entity.QueueStatus, reason *string, allowed ...entity.QueueStatus) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	item, ok := f.store.queue[id]
	if !ok {
		return errors.New("queue item not found")
	}
	permitted := false
	for _, s := range allowed {
		if item.Status == s {
			permitted = true
			break
		}
	}
	if !permitted {
		return repository.ErrStaleQueueItem
	}
	item.Status = status
	if status == entity.QueueStatusProcessing {
		now := time.Now()
		item.ProcessedAt = &now
	}
	if reason != nil {
		item.FailureReason = reason
	}
	return nil
}

func (f *fakeQueueRepo) DistinctPendingTripIDs(_ context.Context, limit int) ([]uuid.UUID, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, item := range f.store.queue {
		if item.Status != entity.QueueStatusPending || seen[item.TripID] {
			continue
		}
		trip, ok := f.store.trips[item.TripID]
		if !ok || trip.AvailableSeats <= 0 || trip.Status != entity.TripStatusInProgress {
			continue
		}
		seen[item.TripID] = true
		out = append(out, item.TripID)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQueueRepo) CountAheadOf(_ context.Context, item *entity.QueueItem) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	count := 0
	for _, other := range f.store.queue {
		if other.TripID != item.TripID || other.Status != entity.QueueStatusPending {
			continue
		}
		if other.PriorityScore > item.PriorityScore ||
			(other.PriorityScore == item.PriorityScore && other.QueuedAt.Before(item.QueuedAt)) {
			count++
		}
	}
	return count, nil
}

func (f *fakeQueueRepo) DeleteTerminalOlderThan(_ context.Context, days int) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -days)
	var deleted int64
	for id, item := range f.store.queue {
		if item.IsTerminal() && item.CreatedAt.Before(cutoff) {
			delete(f.store.queue, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortQueueItems(items []*entity.QueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PriorityScore != items[j].PriorityScore {
			return items[i].PriorityScore > items[j].PriorityScore
		}
		return items[i].QueuedAt.Before(items[j].QueuedAt)
	})
}

// ==================== WIRING ====================

func newTestService(store *memoryStore) *Service {
	repo := &repository.Repository{
		Trip:       &fakeTripRepo{store: store},
		Booking:    &fakeBookingRepo{store: store},
		Allocation: &fakeAllocationRepo{store: store},
		Queue:      &fakeQueueRepo{store: store},
	}

	log := zap.NewNop()
	cacheStore := cache.NewMemoryStore()
	bus := events.NewBus(cacheStore, log)
	config := &utils.Config{Session: utils.SessionConfig{ExpiryHours: 24}}

	return NewService(repo, config, cacheStore, bus, log)
}

func seedTrip(store *memoryStore, owner uuid.UUID, seats int, start time.Time) *entity.Trip {
	now := time.Now()
	trip := &entity.Trip{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:         owner,
		Origin:         "Paris",
		Destination:    "Lyon",
		StartTime:      start,
		EndTime:        start.Add(4 * time.Hour),
		Distance:       120,
		TotalSeats:     seats,
		AvailableSeats: seats,
		BasePrice:      40,
		Status:         entity.TripStatusInProgress,
	}
	store.addTrip(trip)
	return trip
}

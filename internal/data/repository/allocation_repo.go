package repository

import (
	"context"
	"fmt"
	"time"

	"trip-sharing/internal/data/entity"
	"trip-sharing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// AllocationRepository owns the two capacity-mutating transactions.
// Both run under a row-level lock on the trip so the capacity check and
// the seat update can never observe or commit against a stale read.
type AllocationRepository interface {
	// Reserve re-checks capacity and the duplicate-booking rule under
	// lock, then inserts a confirmed booking and decrements
	// available_seats in the same transaction. Returns
	// ErrInsufficientSeats or ErrDuplicateBooking for business
	// rejections.
	Reserve(ctx context.Context, userID, tripID uuid.UUID, seats int) (*entity.Booking, error)

	// Release cancels a confirmed booking and restores its seats to the
	// trip in the same transaction.
	Release(ctx context.Context, bookingID uuid.UUID) error
}

type allocationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAllocationRepository(db database.PgxIface, log *zap.Logger) AllocationRepository {
	return &allocationRepository{
		db:  db,
		log: log.With(zap.String("repository", "allocation")),
	}
}

func (r *allocationRepository) Reserve(ctx context.Context, userID, tripID uuid.UUID, seats int) (*entity.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reserve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the trip row for the whole critical section.
	var availableSeats int
	err = tx.QueryRow(ctx,
		`SELECT available_seats FROM trips WHERE id = $1 FOR UPDATE`,
		tripID,
	).Scan(&availableSeats)
	if err == pgx.ErrNoRows {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock trip %s: %w", tripID.String(), err)
	}

	if availableSeats < seats {
		return nil, ErrInsufficientSeats
	}

	// Duplicate check under the same lock; catches races with a
	// concurrent direct booking.
	var existing int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND trip_id = $2 AND status != 'cancelled'`,
		userID, tripID,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("check existing booking: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateBooking
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        userID,
		TripID:        tripID,
		SeatsReserved: seats,
		BookingTime:   now,
		Status:        entity.BookingStatusConfirmed,
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, user_id, trip_id, seats_reserved, booking_time, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		booking.ID, booking.UserID, booking.TripID, booking.SeatsReserved,
		booking.BookingTime, booking.Status, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE trips SET available_seats = available_seats - $2, updated_at = $3 WHERE id = $1`,
		tripID, seats, now,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement trip seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reserve tx: %w", err)
	}

	r.log.Info("Seats reserved",
		zap.String("booking_id", booking.ID.String()),
		zap.String("trip_id", tripID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("seats", seats),
	)

	return booking, nil
}

func (r *allocationRepository) Release(ctx context.Context, bookingID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin release tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var tripID uuid.UUID
	var seats int
	err = tx.QueryRow(ctx,
		`SELECT trip_id, seats_reserved FROM bookings WHERE id = $1 AND status = 'confirmed' FOR UPDATE`,
		bookingID,
	).Scan(&tripID, &seats)
	if err == pgx.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("lock booking %s: %w", bookingID.String(), err)
	}

	// Lock the trip row before touching capacity.
	_, err = tx.Exec(ctx, `SELECT id FROM trips WHERE id = $1 FOR UPDATE`, tripID)
	if err != nil {
		return fmt.Errorf("lock trip %s: %w", tripID.String(), err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE bookings SET status = 'cancelled', updated_at = NOW() WHERE id = $1`,
		bookingID,
	)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE trips SET available_seats = available_seats + $2, updated_at = NOW() WHERE id = $1`,
		tripID, seats,
	)
	if err != nil {
		return fmt.Errorf("restore trip seats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit release tx: %w", err)
	}

	r.log.Info("Seats released",
		zap.String("booking_id", bookingID.String()),
		zap.String("trip_id", tripID.String()),
		zap.Int("seats", seats),
	)

	return nil
}

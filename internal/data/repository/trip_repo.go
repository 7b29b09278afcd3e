package repository

import (
	"context"
	"fmt"

	"trip-sharing/internal/data/entity"
	"trip-sharing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TripRepository interface {
	Create(ctx context.Context, trip *entity.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Trip, error)
	Update(ctx context.Context, trip *entity.Trip) error
	UpdateStatus(ctx context.Context, tripID uuid.UUID, status entity.TripStatus) error
	UpdatePricing(ctx context.Context, tripID uuid.UUID, surgeMultiplier, finalPrice float64) error

	// Business queries
	FindAvailable(ctx context.Context, origin, destination string, limit, offset int) ([]*entity.Trip, error)
	CountAvailable(ctx context.Context, origin, destination string) (int64, error)
}

type tripRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTripRepository(db database.PgxIface, log *zap.Logger) TripRepository {
	return &tripRepository{
		db:  db,
		log: log.With(zap.String("repository", "trip")),
	}
}

const tripColumns = `id, user_id, origin, destination, start_time, end_time, distance,
	total_seats, available_seats, base_price, surge_multiplier, final_price, status,
	created_at, updated_at`

func scanTrip(row pgx.Row) (*entity.Trip, error) {
	var trip entity.Trip
	err := row.Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Origin,
		&trip.Destination,
		&trip.StartTime,
		&trip.EndTime,
		&trip.Distance,
		&trip.TotalSeats,
		&trip.AvailableSeats,
		&trip.BasePrice,
		&trip.SurgeMultiplier,
		&trip.FinalPrice,
		&trip.Status,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	query := `
		INSERT INTO trips (id, user_id, origin, destination, start_time, end_time, distance,
			total_seats, available_seats, base_price, surge_multiplier, final_price, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Origin,
		trip.Destination,
		trip.StartTime,
		trip.EndTime,
		trip.Distance,
		trip.TotalSeats,
		trip.AvailableSeats,
		trip.BasePrice,
		trip.SurgeMultiplier,
		trip.FinalPrice,
		trip.Status,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create trip",
			zap.Error(err),
			zap.String("user_id", trip.UserID.String()),
		)
		return fmt.Errorf("create trip: %w", err)
	}

	return nil
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, fmt.Errorf("find trip by ID %s: %w", id.String(), err)
	}

	return trip, nil
}

func (r *tripRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find trips by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find trips by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectTrips(rows)
}

func (r *tripRepository) Update(ctx context.Context, trip *entity.Trip) error {
	query := `
		UPDATE trips
		SET origin = $2, destination = $3, start_time = $4, end_time = $5, distance = $6,
		    total_seats = $7, available_seats = $8, base_price = $9, surge_multiplier = $10,
		    final_price = $11, status = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		trip.ID,
		trip.Origin,
		trip.Destination,
		trip.StartTime,
		trip.EndTime,
		trip.Distance,
		trip.TotalSeats,
		trip.AvailableSeats,
		trip.BasePrice,
		trip.SurgeMultiplier,
		trip.FinalPrice,
		trip.Status,
		trip.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update trip",
			zap.Error(err),
			zap.String("trip_id", trip.ID.String()),
		)
		return fmt.Errorf("update trip %s: %w", trip.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip %s not found", trip.ID.String())
	}

	return nil
}

func (r *tripRepository) UpdateStatus(ctx context.Context, tripID uuid.UUID, status entity.TripStatus) error {
	query := `UPDATE trips SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, tripID, status)
	if err != nil {
		r.log.Error("Failed to update trip status",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update trip %s status to %s: %w", tripID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip %s not found", tripID.String())
	}

	return nil
}

func (r *tripRepository) UpdatePricing(ctx context.Context, tripID uuid.UUID, surgeMultiplier, finalPrice float64) error {
	query := `UPDATE trips SET surge_multiplier = $2, final_price = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, tripID, surgeMultiplier, finalPrice)
	if err != nil {
		r.log.Error("Failed to update trip pricing",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return fmt.Errorf("update trip %s pricing: %w", tripID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip %s not found", tripID.String())
	}

	return nil
}

func (r *tripRepository) FindAvailable(ctx context.Context, origin, destination string, limit, offset int) ([]*entity.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
		WHERE available_seats > 0 AND status = 'in-progress'
		  AND ($1 = '' OR origin ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR destination ILIKE '%' || $2 || '%')
		ORDER BY start_time ASC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, origin, destination, limit, offset)
	if err != nil {
		r.log.Error("Failed to find available trips",
			zap.Error(err),
			zap.String("origin", origin),
			zap.String("destination", destination),
		)
		return nil, fmt.Errorf("find available trips: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows)
}

func (r *tripRepository) CountAvailable(ctx context.Context, origin, destination string) (int64, error) {
	query := `SELECT COUNT(*) FROM trips
		WHERE available_seats > 0 AND status = 'in-progress'
		  AND ($1 = '' OR origin ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR destination ILIKE '%' || $2 || '%')`

	var count int64
	if err := r.db.QueryRow(ctx, query, origin, destination).Scan(&count); err != nil {
		r.log.Error("Failed to count available trips", zap.Error(err))
		return 0, fmt.Errorf("count available trips: %w", err)
	}

	return count, nil
}

func collectTrips(rows pgx.Rows) ([]*entity.Trip, error) {
	var trips []*entity.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip row: %w", err)
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

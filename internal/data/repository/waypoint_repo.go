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

type WaypointRepository interface {
	Create(ctx context.Context, waypoint *entity.Waypoint) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Waypoint, error)
	FindFirstByCity(ctx context.Context, city string) (*entity.Waypoint, error)
	Search(ctx context.Context, term string, limit int) ([]*entity.Waypoint, error)
	FindAll(ctx context.Context) ([]*entity.Waypoint, error)
}

type waypointRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWaypointRepository(db database.PgxIface, log *zap.Logger) WaypointRepository {
	return &waypointRepository{
		db:  db,
		log: log.With(zap.String("repository", "waypoint")),
	}
}

const waypointColumns = `id, name, city, country, latitude, longitude, created_at, updated_at`

func scanWaypoint(row pgx.Row) (*entity.Waypoint, error) {
	var wp entity.Waypoint
	err := row.Scan(
		&wp.ID,
		&wp.Name,
		&wp.City,
		&wp.Country,
		&wp.Latitude,
		&wp.Longitude,
		&wp.CreatedAt,
		&wp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wp, nil
}

func (r *waypointRepository) Create(ctx context.Context, waypoint *entity.Waypoint) error {
	query := `
		INSERT INTO waypoints (id, name, city, country, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		waypoint.ID,
		waypoint.Name,
		waypoint.City,
		waypoint.Country,
		waypoint.Latitude,
		waypoint.Longitude,
		waypoint.CreatedAt,
		waypoint.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create waypoint",
			zap.Error(err),
			zap.String("name", waypoint.Name),
		)
		return fmt.Errorf("create waypoint: %w", err)
	}

	return nil
}

func (r *waypointRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Waypoint, error) {
	query := `SELECT ` + waypointColumns + ` FROM waypoints WHERE id = $1`

	wp, err := scanWaypoint(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find waypoint by ID",
			zap.Error(err),
			zap.String("waypoint_id", id.String()),
		)
		return nil, fmt.Errorf("find waypoint by ID %s: %w", id.String(), err)
	}

	return wp, nil
}

func (r *waypointRepository) FindFirstByCity(ctx context.Context, city string) (*entity.Waypoint, error) {
	query := `SELECT ` + waypointColumns + ` FROM waypoints WHERE city ILIKE $1 ORDER BY name ASC LIMIT 1`

	wp, err := scanWaypoint(r.db.QueryRow(ctx, query, city))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find waypoint by city",
			zap.Error(err),
			zap.String("city", city),
		)
		return nil, fmt.Errorf("find waypoint by city %s: %w", city, err)
	}

	return wp, nil
}

func (r *waypointRepository) Search(ctx context.Context, term string, limit int) ([]*entity.Waypoint, error) {
	query := `SELECT ` + waypointColumns + ` FROM waypoints
		WHERE name ILIKE $1 OR city ILIKE $1
		ORDER BY city ASC, name ASC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, "%"+term+"%", limit)
	if err != nil {
		r.log.Error("Failed to search waypoints",
			zap.Error(err),
			zap.String("term", term),
		)
		return nil, fmt.Errorf("search waypoints: %w", err)
	}
	defer rows.Close()

	return collectWaypoints(rows)
}

func (r *waypointRepository) FindAll(ctx context.Context) ([]*entity.Waypoint, error) {
	query := `SELECT ` + waypointColumns + ` FROM waypoints ORDER BY city ASC, name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list waypoints", zap.Error(err))
		return nil, fmt.Errorf("list waypoints: %w", err)
	}
	defer rows.Close()

	return collectWaypoints(rows)
}

func collectWaypoints(rows pgx.Rows) ([]*entity.Waypoint, error) {
	var waypoints []*entity.Waypoint
	for rows.Next() {
		wp, err := scanWaypoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waypoint row: %w", err)
		}
		waypoints = append(waypoints, wp)
	}
	return waypoints, nil
}

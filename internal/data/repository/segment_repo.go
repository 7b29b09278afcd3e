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

type SegmentRepository interface {
	Create(ctx context.Context, segment *entity.Segment) error
	FindAllActive(ctx context.Context) ([]*entity.Segment, error)
	FindActiveBetween(ctx context.Context, fromID, toID uuid.UUID) (*entity.Segment, error)
}

type segmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSegmentRepository(db database.PgxIface, log *zap.Logger) SegmentRepository {
	return &segmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "segment")),
	}
}

const segmentColumns = `id, from_waypoint_id, to_waypoint_id, distance, estimated_time,
	base_price, is_active, created_at, updated_at`

func scanSegment(row pgx.Row) (*entity.Segment, error) {
	var seg entity.Segment
	err := row.Scan(
		&seg.ID,
		&seg.FromWaypointID,
		&seg.ToWaypointID,
		&seg.Distance,
		&seg.EstimatedTime,
		&seg.BasePrice,
		&seg.IsActive,
		&seg.CreatedAt,
		&seg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (r *segmentRepository) Create(ctx context.Context, segment *entity.Segment) error {
	query := `
		INSERT INTO route_segments (id, from_waypoint_id, to_waypoint_id, distance,
			estimated_time, base_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		segment.ID,
		segment.FromWaypointID,
		segment.ToWaypointID,
		segment.Distance,
		segment.EstimatedTime,
		segment.BasePrice,
		segment.IsActive,
		segment.CreatedAt,
		segment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create route segment",
			zap.Error(err),
			zap.String("from", segment.FromWaypointID.String()),
			zap.String("to", segment.ToWaypointID.String()),
		)
		return fmt.Errorf("create route segment: %w", err)
	}

	return nil
}

func (r *segmentRepository) FindAllActive(ctx context.Context) ([]*entity.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM route_segments WHERE is_active = true`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list active route segments", zap.Error(err))
		return nil, fmt.Errorf("list active route segments: %w", err)
	}
	defer rows.Close()

	var segments []*entity.Segment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route segment row: %w", err)
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

func (r *segmentRepository) FindActiveBetween(ctx context.Context, fromID, toID uuid.UUID) (*entity.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM route_segments
		WHERE from_waypoint_id = $1 AND to_waypoint_id = $2 AND is_active = true
		LIMIT 1`

	seg, err := scanSegment(r.db.QueryRow(ctx, query, fromID, toID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find route segment",
			zap.Error(err),
			zap.String("from", fromID.String()),
			zap.String("to", toID.String()),
		)
		return nil, fmt.Errorf("find route segment %s -> %s: %w", fromID.String(), toID.String(), err)
	}

	return seg, nil
}

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

type QueueRepository interface {
	Create(ctx context.Context, item *entity.QueueItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.QueueItem, error)

	// FindPendingByTrip returns pending items in admission order:
	// priority_score descending, then queued_at ascending. This ordering
	// is the fairness policy; estimated positions use the same
	// comparator.
	FindPendingByTrip(ctx context.Context, tripID uuid.UUID) ([]*entity.QueueItem, error)
	FindByTrip(ctx context.Context, tripID uuid.UUID) ([]*entity.QueueItem, error)
	FindPendingByUser(ctx context.Context, userID uuid.UUID) ([]*entity.QueueItem, error)
	HasActiveForUserAndTrip(ctx context.Context, userID, tripID uuid.UUID) (bool, error)

	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error

	// CancelPending fails a queue item only while it is still pending.
	// Once a processing pass has claimed the item the cancel loses the
	// race and ErrStaleQueueItem is returned.
	CancelPending(ctx context.Context, id uuid.UUID, reason string) error

	// DistinctPendingTripIDs lists trips that still have pending items,
	// restricted to open in-progress trips, capped at limit.
	DistinctPendingTripIDs(ctx context.Context, limit int) ([]uuid.UUID, error)

	// CountAheadOf counts pending items that the comparator places
	// before the given item.
	CountAheadOf(ctx context.Context, item *entity.QueueItem) (int, error)

	DeleteTerminalOlderThan(ctx context.Context, days int) (int64, error)
}

type queueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewQueueRepository(db database.PgxIface, log *zap.Logger) QueueRepository {
	return &queueRepository{
		db:  db,
		log: log.With(zap.String("repository", "queue")),
	}
}

const queueColumns = `id, user_id, trip_id, seats_requested, priority_score, status,
	queued_at, processed_at, failure_reason, created_at, updated_at`

func scanQueueItem(row pgx.Row) (*entity.QueueItem, error) {
	var item entity.QueueItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.TripID,
		&item.SeatsRequested,
		&item.PriorityScore,
		&item.Status,
		&item.QueuedAt,
		&item.ProcessedAt,
		&item.FailureReason,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *queueRepository) Create(ctx context.Context, item *entity.QueueItem) error {
	query := `
		INSERT INTO booking_queue (id, user_id, trip_id, seats_requested, priority_score,
			status, queued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.TripID,
		item.SeatsRequested,
		item.PriorityScore,
		item.Status,
		item.QueuedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create queue item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.String("trip_id", item.TripID.String()),
		)
		return fmt.Errorf("create queue item: %w", err)
	}

	return nil
}

func (r *queueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM booking_queue WHERE id = $1`

	item, err := scanQueueItem(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find queue item by ID",
			zap.Error(err),
			zap.String("queue_id", id.String()),
		)
		return nil, fmt.Errorf("find queue item by ID %s: %w", id.String(), err)
	}

	return item, nil
}

func (r *queueRepository) FindPendingByTrip(ctx context.Context, tripID uuid.UUID) ([]*entity.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM booking_queue
		WHERE trip_id = $1 AND status = 'pending'
		ORDER BY priority_score DESC, queued_at ASC`

	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		r.log.Error("Failed to find pending queue items",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return nil, fmt.Errorf("find pending queue items for trip %s: %w", tripID.String(), err)
	}
	defer rows.Close()

	return collectQueueItems(rows)
}

func (r *queueRepository) FindByTrip(ctx context.Context, tripID uuid.UUID) ([]*entity.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM booking_queue
		WHERE trip_id = $1
		ORDER BY priority_score DESC, queued_at ASC`

	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		r.log.Error("Failed to find queue items by trip",
			zap.Error(err),
			zap.String("trip_id", tripID.String()),
		)
		return nil, fmt.Errorf("find queue items for trip %s: %w", tripID.String(), err)
	}
	defer rows.Close()

	return collectQueueItems(rows)
}

func (r *queueRepository) FindPendingByUser(ctx context.Context, userID uuid.UUID) ([]*entity.QueueItem, error) {
	query := `SELECT ` + queueColumns + ` FROM booking_queue
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY queued_at ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find pending queue items by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find pending queue items for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectQueueItems(rows)
}

func (r *queueRepository) HasActiveForUserAndTrip(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	query := `SELECT COUNT(*) FROM booking_queue
		WHERE user_id = $1 AND trip_id = $2 AND status IN ('pending', 'processing')`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, tripID).Scan(&count); err != nil {
		r.log.Error("Failed to check active queue item",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("trip_id", tripID.String()),
		)
		return false, fmt.Errorf("check active queue item: %w", err)
	}

	return count > 0, nil
}

// Status transitions are guarded so concurrent movers (a user cancel
// racing a processing pass) cannot overwrite each other; zero rows
// affected means the item already left the expected status.

func (r *queueRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE booking_queue SET status = 'processing', processed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`
	return r.execMark(ctx, query, id, "processing")
}

func (r *queueRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE booking_queue SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status = 'processing'`
	return r.execMark(ctx, query, id, "completed")
}

func (r *queueRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE booking_queue SET status = 'failed', failure_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'processing')`

	result, err := r.db.Exec(ctx, query, id, reason)
	if err != nil {
		r.log.Error("Failed to mark queue item failed",
			zap.Error(err),
			zap.String("queue_id", id.String()),
		)
		return fmt.Errorf("mark queue item %s failed: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark queue item %s failed: %w", id.String(), ErrStaleQueueItem)
	}

	return nil
}

func (r *queueRepository) CancelPending(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE booking_queue SET status = 'failed', failure_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id, reason)
	if err != nil {
		r.log.Error("Failed to cancel queue item",
			zap.Error(err),
			zap.String("queue_id", id.String()),
		)
		return fmt.Errorf("cancel queue item %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cancel queue item %s: %w", id.String(), ErrStaleQueueItem)
	}

	return nil
}

func (r *queueRepository) execMark(ctx context.Context, query string, id uuid.UUID, status string) error {
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to update queue item status",
			zap.Error(err),
			zap.String("queue_id", id.String()),
			zap.String("status", status),
		)
		return fmt.Errorf("mark queue item %s %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark queue item %s %s: %w", id.String(), status, ErrStaleQueueItem)
	}

	return nil
}

func (r *queueRepository) DistinctPendingTripIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT q.trip_id FROM booking_queue q
		JOIN trips t ON t.id = q.trip_id
		WHERE q.status = 'pending' AND t.available_seats > 0 AND t.status = 'in-progress'
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to list trips with pending queue items", zap.Error(err))
		return nil, fmt.Errorf("list trips with pending queue items: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan trip id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *queueRepository) CountAheadOf(ctx context.Context, item *entity.QueueItem) (int, error) {
	query := `
		SELECT COUNT(*) FROM booking_queue
		WHERE trip_id = $1 AND status = 'pending'
		  AND (priority_score > $2 OR (priority_score = $2 AND queued_at < $3))
	`

	var count int
	err := r.db.QueryRow(ctx, query, item.TripID, item.PriorityScore, item.QueuedAt).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count queue items ahead",
			zap.Error(err),
			zap.String("queue_id", item.ID.String()),
		)
		return 0, fmt.Errorf("count queue items ahead of %s: %w", item.ID.String(), err)
	}

	return count, nil
}

func (r *queueRepository) DeleteTerminalOlderThan(ctx context.Context, days int) (int64, error) {
	query := `
		DELETE FROM booking_queue
		WHERE status IN ('completed', 'failed')
		  AND created_at < NOW() - ($1 || ' days')::interval
	`

	result, err := r.db.Exec(ctx, query, days)
	if err != nil {
		r.log.Error("Failed to delete old queue items", zap.Error(err))
		return 0, fmt.Errorf("delete old queue items: %w", err)
	}

	return result.RowsAffected(), nil
}

func collectQueueItems(rows pgx.Rows) ([]*entity.QueueItem, error) {
	var items []*entity.QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan queue item row: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

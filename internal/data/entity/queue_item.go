package entity

import (
	"time"

	"github.com/google/uuid"
)

type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusCompleted  QueueStatus = "completed"
	QueueStatusFailed     QueueStatus = "failed"
)

// QueueItem is a seat request awaiting admission. The priority score is
// computed once at enqueue time and never recomputed. Completed and
// failed are terminal; terminal items are purged after the retention
// window.
type QueueItem struct {
	Base
	UserID         uuid.UUID   `db:"user_id"`
	TripID         uuid.UUID   `db:"trip_id"`
	SeatsRequested int         `db:"seats_requested"`
	PriorityScore  int         `db:"priority_score"`
	Status         QueueStatus `db:"status"`
	QueuedAt       time.Time   `db:"queued_at"`
	ProcessedAt    *time.Time  `db:"processed_at"`
	FailureReason  *string     `db:"failure_reason"`
}

// IsTerminal reports whether the item has reached a final state.
func (q *QueueItem) IsTerminal() bool {
	return q.Status == QueueStatusCompleted || q.Status == QueueStatusFailed
}

package response

import (
	"time"

	"trip-sharing/internal/data/entity"
)

type QueueItemResponse struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	TripID         string             `json:"trip_id"`
	SeatsRequested int                `json:"seats_requested"`
	PriorityScore  int                `json:"priority_score"`
	Status         entity.QueueStatus `json:"status"`
	QueuedAt       time.Time          `json:"queued_at"`
	ProcessedAt    *time.Time         `json:"processed_at,omitempty"`
	FailureReason  *string            `json:"failure_reason,omitempty"`
}

// QueueStatusResponse adds the advisory position estimate. The position
// is a snapshot and can shift as higher-priority requests arrive.
type QueueStatusResponse struct {
	QueueItemResponse
	EstimatedPosition int `json:"estimated_position,omitempty"`
}

// ProcessItemError is an unexpected per-item failure captured during a
// pass. Business rejections (insufficient seats, duplicates) are not
// errors; they only show up as failed items with a reason.
type ProcessItemError struct {
	QueueItemID string `json:"queue_item_id"`
	Error       string `json:"error"`
}

// ProcessResultResponse summarizes one processing pass over a trip's
// pending queue.
type ProcessResultResponse struct {
	TripID    string             `json:"trip_id"`
	Processed int                `json:"processed"`
	Completed int                `json:"completed"`
	Failed    int                `json:"failed"`
	Errors    []ProcessItemError `json:"errors,omitempty"`
}

// BatchProcessResponse summarizes a pass over every trip with pending
// requests, with totals aggregated across the per-trip results.
type BatchProcessResponse struct {
	TripsProcessed int                     `json:"trips_processed"`
	TotalProcessed int                     `json:"total_processed"`
	TotalCompleted int                     `json:"total_completed"`
	TotalFailed    int                     `json:"total_failed"`
	Results        []ProcessResultResponse `json:"results"`
}

func QueueItemToResponse(item *entity.QueueItem) *QueueItemResponse {
	return &QueueItemResponse{
		ID:             item.ID.String(),
		UserID:         item.UserID.String(),
		TripID:         item.TripID.String(),
		SeatsRequested: item.SeatsRequested,
		PriorityScore:  item.PriorityScore,
		Status:         item.Status,
		QueuedAt:       item.QueuedAt,
		ProcessedAt:    item.ProcessedAt,
		FailureReason:  item.FailureReason,
	}
}

func QueueItemsToResponse(items []*entity.QueueItem) []QueueItemResponse {
	out := make([]QueueItemResponse, len(items))
	for i, item := range items {
		out[i] = *QueueItemToResponse(item)
	}
	return out
}

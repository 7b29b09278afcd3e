package adaptor

import (
	"encoding/json"
	"net/http"

	"trip-sharing/internal/dto/request"
	"trip-sharing/internal/usecase"
	"trip-sharing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QueueHandler struct {
	service usecase.QueueService
	log     *zap.Logger
}

func NewQueueHandler(service usecase.QueueService, log *zap.Logger) *QueueHandler {
	return &QueueHandler{
		service: service,
		log:     log.With(zap.String("handler", "queue")),
	}
}

// Enqueue handles POST /api/v1/queue
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req request.EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Enqueue(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "enqueue seat request")
		return
	}

	utils.ResponseCreated(w, "Seat request queued", resp)
}

// Cancel handles DELETE /api/v1/queue/{id}
func (h *QueueHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelQueueItem(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "cancel queue item")
		return
	}

	utils.ResponseSuccess(w, "Queue item cancelled", nil)
}

// Position handles GET /api/v1/queue/{id}/position
func (h *QueueHandler) Position(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromRequest(w, r); !ok {
		return
	}

	resp, err := h.service.GetEstimatedPosition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "estimate queue position")
		return
	}

	utils.ResponseSuccess(w, "Queue position estimated", resp)
}

// TripStatus handles GET /api/v1/trips/{id}/queue
func (h *QueueHandler) TripStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetQueueStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "fetch queue status")
		return
	}

	utils.ResponseSuccess(w, "Queue status retrieved", resp)
}

// ProcessTrip handles POST /api/v1/queue/process/{tripId}
func (h *QueueHandler) ProcessTrip(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromRequest(w, r); !ok {
		return
	}

	resp, err := h.service.ProcessTripQueue(r.Context(), chi.URLParam(r, "tripId"))
	if err != nil {
		handleServiceError(w, h.log, err, "process trip queue")
		return
	}

	utils.ResponseSuccess(w, "Queue processed", resp)
}

// ProcessAll handles POST /api/v1/queue/process-all
func (h *QueueHandler) ProcessAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromRequest(w, r); !ok {
		return
	}

	limit := utils.ParseInt(r.URL.Query().Get("limit"), 100)

	resp, err := h.service.ProcessAllPendingTrips(r.Context(), limit)
	if err != nil {
		handleServiceError(w, h.log, err, "process pending trips")
		return
	}

	utils.ResponseSuccess(w, "Pending trips processed", resp)
}

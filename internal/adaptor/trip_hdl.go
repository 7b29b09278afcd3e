package adaptor

import (
	"encoding/json"
	"net/http"

	"trip-sharing/internal/data/entity"
	"trip-sharing/internal/dto/request"
	"trip-sharing/internal/usecase"
	"trip-sharing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TripHandler struct {
	service usecase.TripService
	pricing usecase.PricingService
	log     *zap.Logger
}

func NewTripHandler(service usecase.TripService, pricing usecase.PricingService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		pricing: pricing,
		log:     log.With(zap.String("handler", "trip")),
	}
}

// Create handles POST /api/v1/trips
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req request.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.CreateTrip(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create trip")
		return
	}

	utils.ResponseCreated(w, "Trip created", resp)
}

// Get handles GET /api/v1/trips/{id}
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "fetch trip")
		return
	}

	utils.ResponseSuccess(w, "Trip retrieved", resp)
}

// ListAvailable handles GET /api/v1/trips
func (h *TripHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	req := &request.AvailableTripsRequest{
		Origin:      r.URL.Query().Get("origin"),
		Destination: r.URL.Query().Get("destination"),
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(r.URL.Query().Get("page"), 1),
			PerPage: utils.ParseInt(r.URL.Query().Get("per_page"), 10),
		},
	}

	resp, err := h.service.GetAvailableTrips(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list available trips")
		return
	}

	utils.ResponseSuccess(w, "Available trips retrieved", resp)
}

// ListMine handles GET /api/v1/me/trips
func (h *TripHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(r.URL.Query().Get("page"), 1),
		PerPage: utils.ParseInt(r.URL.Query().Get("per_page"), 10),
	}

	resp, err := h.service.GetUserTrips(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list user trips")
		return
	}

	utils.ResponseSuccess(w, "Trips retrieved", resp)
}

// Update handles PUT /api/v1/trips/{id}
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req request.UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.UpdateTrip(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update trip")
		return
	}

	utils.ResponseSuccess(w, "Trip updated", resp)
}

// UpdateStatus handles PATCH /api/v1/trips/{id}/status
func (h *TripHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=in-progress completed cancelled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	err := h.service.UpdateTripStatus(r.Context(), userID, chi.URLParam(r, "id"), entity.TripStatus(req.Status))
	if err != nil {
		handleServiceError(w, h.log, err, "update trip status")
		return
	}

	utils.ResponseSuccess(w, "Trip status updated", nil)
}

// Quote handles GET /api/v1/trips/{id}/pricing
func (h *TripHandler) Quote(w http.ResponseWriter, r *http.Request) {
	resp, err := h.pricing.Quote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "quote trip")
		return
	}

	utils.ResponseSuccess(w, "Quote computed", resp)
}

// RefreshPricing handles POST /api/v1/trips/{id}/pricing/refresh
func (h *TripHandler) RefreshPricing(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFromRequest(w, r); !ok {
		return
	}

	resp, err := h.pricing.RefreshTripPricing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "refresh trip pricing")
		return
	}

	utils.ResponseSuccess(w, "Trip pricing refreshed", resp)
}

// BulkQuote handles POST /api/v1/pricing/bulk
func (h *TripHandler) BulkQuote(w http.ResponseWriter, r *http.Request) {
	var req request.BulkPricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.pricing.BulkQuote(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "bulk quote")
		return
	}

	utils.ResponseSuccess(w, "Quotes computed", resp)
}

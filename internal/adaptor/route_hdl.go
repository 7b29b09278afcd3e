package adaptor

import (
	"encoding/json"
	"net/http"

	"trip-sharing/internal/dto/request"
	"trip-sharing/internal/usecase"
	"trip-sharing/pkg/utils"

	"go.uber.org/zap"
)

type RouteHandler struct {
	service usecase.RouteService
	log     *zap.Logger
}

func NewRouteHandler(service usecase.RouteService, log *zap.Logger) *RouteHandler {
	return &RouteHandler{
		service: service,
		log:     log.With(zap.String("handler", "route")),
	}
}

// Find handles GET /api/v1/routes?from=&to=
func (h *RouteHandler) Find(w http.ResponseWriter, r *http.Request) {
	req := request.FindRouteRequest{
		FromWaypointID: r.URL.Query().Get("from"),
		ToWaypointID:   r.URL.Query().Get("to"),
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	resp, err := h.service.FindRoute(r.Context(), req.FromWaypointID, req.ToWaypointID)
	if err != nil {
		handleServiceError(w, h.log, err, "find route")
		return
	}

	utils.ResponseSuccess(w, "Route found", resp)
}

// FindByCity handles GET /api/v1/routes/by-city?from=&to=
func (h *RouteHandler) FindByCity(w http.ResponseWriter, r *http.Request) {
	req := request.FindRouteByCityRequest{
		FromCity: r.URL.Query().Get("from"),
		ToCity:   r.URL.Query().Get("to"),
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	resp, err := h.service.FindRouteByCityNames(r.Context(), req.FromCity, req.ToCity)
	if err != nil {
		handleServiceError(w, h.log, err, "find route by city")
		return
	}

	utils.ResponseSuccess(w, "Route found", resp)
}

// Search handles GET /api/v1/waypoints/search?q=&limit=
func (h *RouteHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := request.SearchWaypointsRequest{
		Query: r.URL.Query().Get("q"),
		Limit: utils.ParseInt(r.URL.Query().Get("limit"), 20),
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	resp, err := h.service.SearchWaypoints(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "search waypoints")
		return
	}

	utils.ResponseSuccess(w, "Waypoints retrieved", resp)
}

// CreateWaypoint handles POST /api/v1/waypoints
func (h *RouteHandler) CreateWaypoint(w http.ResponseWriter, r *http.Request) {
	var req request.CreateWaypointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.CreateWaypoint(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create waypoint")
		return
	}

	utils.ResponseCreated(w, "Waypoint created", resp)
}

// CreateSegment handles POST /api/v1/segments
func (h *RouteHandler) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.CreateSegment(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create segment")
		return
	}

	utils.ResponseCreated(w, "Route segment created", resp)
}

// List handles GET /api/v1/waypoints
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListWaypoints(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list waypoints")
		return
	}

	utils.ResponseSuccess(w, "Waypoints retrieved", resp)
}

package adaptor

import (
	"errors"
	"net/http"

	"trip-sharing/internal/routing"
	"trip-sharing/internal/usecase"
	"trip-sharing/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Trip    *TripHandler
	Booking *BookingHandler
	Queue   *QueueHandler
	Route   *RouteHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Trip:    NewTripHandler(service.Trip, service.Pricing, log),
		Booking: NewBookingHandler(service.Booking, log),
		Queue:   NewQueueHandler(service.Queue, log),
		Route:   NewRouteHandler(service.Route, log),
	}
}

// handleServiceError maps service errors onto HTTP statuses. Business
// rejections come back as sentinel errors; anything unrecognized is an
// internal failure and its detail stays out of the response.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrTripNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrQueueItemNotFound),
		errors.Is(err, usecase.ErrWaypointNotFound),
		errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, routing.ErrNoRoute):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrOwnTrip),
		errors.Is(err, usecase.ErrDuplicateBooking),
		errors.Is(err, usecase.ErrDuplicatePending),
		errors.Is(err, usecase.ErrInsufficientSeats),
		errors.Is(err, usecase.ErrNotCancellable),
		errors.Is(err, usecase.ErrAlreadyCancelled),
		errors.Is(err, usecase.ErrTripNotOpen),
		errors.Is(err, usecase.ErrEmailTaken):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func userIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return "", false
	}
	return userID.String(), true
}

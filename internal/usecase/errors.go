package usecase

import "errors"

// Business rejections. Handlers translate these to HTTP statuses with
// errors.Is; they are never retried.
var (
	ErrValidation = errors.New("validation failed")

	ErrTripNotFound      = errors.New("trip not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrQueueItemNotFound = errors.New("queue item not found")
	ErrWaypointNotFound  = errors.New("waypoint not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrOwnTrip           = errors.New("cannot book your own trip")
	ErrDuplicateBooking  = errors.New("user already has a booking for this trip")
	ErrDuplicatePending  = errors.New("user already has a pending request for this trip")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrNotCancellable    = errors.New("only pending queue items can be cancelled")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrTripNotOpen       = errors.New("trip is not open for booking")
	ErrForbidden         = errors.New("operation not permitted for this user")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Queue item failure reasons recorded on terminal items. The exact
// strings are part of the processing contract and asserted in tests.
const (
	FailureInsufficientSeats = "insufficient seats"
	FailureDuplicateBooking  = "duplicate reservation"
	FailureCancelledByUser   = "cancelled by user"
)

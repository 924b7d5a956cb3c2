package models

import "errors"

// Guard rejections, in the order the guard evaluates them. The messages are
// user-facing; the api layer maps each sentinel to an HTTP status.
var (
	ErrNotAuthenticated = errors.New("you must be logged in to book")
	ErrManagerBooking   = errors.New("venue managers cannot make bookings")
	ErrDatesRequired    = errors.New("please select dates")
	ErrInvalidGuests    = errors.New("invalid number of guests")
	ErrDatesUnavailable = errors.New("selected dates are not available")
)

// Session misuse and submission outcomes.
var (
	ErrSubmitInFlight  = errors.New("a booking submission is already in progress")
	ErrSessionFinished = errors.New("booking session already completed, reset required")
	ErrBookingFailed   = errors.New("failed to create booking")
)

var (
	ErrInvalidUUID     = errors.New("id is not a valid uuid")
	ErrVenueNotFound   = errors.New("venue not found")
	ErrBookingNotFound = errors.New("booking not found")
)

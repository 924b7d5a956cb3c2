// Package booking gates and drives booking submission: a pure business-rule
// guard and a small state machine around the single upstream create call.
package booking

import (
	"time"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/availability"
)

// Context is the snapshot of auth and venue state a guard evaluation runs
// against. It is passed in explicitly rather than read from any ambient
// store, which keeps Validate a pure function.
type Context struct {
	Authenticated bool
	Role          models.Role
	Name          string
	MaxGuests     int
	Guests        int
}

// Validate runs the pre-submission business rules in a fixed order:
// authentication, role, date presence and order, guest bounds, then overlap.
// The order is part of the contract: a request missing both dates and guests
// always reports the dates problem. A zero-night stay (from == to) is
// rejected with the same class as missing dates.
func Validate(ctx Context, from, to time.Time, set availability.IntervalSet) error {
	if !ctx.Authenticated {
		return models.ErrNotAuthenticated
	}
	if ctx.Role == models.RoleVenueManager {
		return models.ErrManagerBooking
	}
	if from.IsZero() || to.IsZero() {
		return models.ErrDatesRequired
	}
	if availability.Day(from).Equal(availability.Day(to)) {
		return models.ErrDatesRequired
	}
	if ctx.Guests < 1 || ctx.Guests > ctx.MaxGuests {
		return models.ErrInvalidGuests
	}
	if !availability.IsRangeFree(from, to, set) {
		return models.ErrDatesUnavailable
	}
	return nil
}

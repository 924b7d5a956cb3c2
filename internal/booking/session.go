package booking

import (
	"context"
	"sync"
	"time"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/availability"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle       State = "IDLE"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// Creator issues the single booking-creation call to the upstream service.
// Retries, if any, are the caller's concern.
type Creator interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
}

// Session coordinates one booking attempt for one venue: date selection,
// guard evaluation, remote submission, and success or error reporting. It is
// the only component here with mutable state. A mutex serializes access so
// rapid repeated submits cannot produce duplicate upstream requests; while a
// request is in flight every other call is a safe no-op.
type Session struct {
	mu      sync.Mutex
	creator Creator
	log     *zap.Logger

	venueID string
	state   State
	from    time.Time
	to      time.Time
	err     error
}

func NewSession(venueID string, creator Creator, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		creator: creator,
		log:     logger,
		venueID: venueID,
		state:   StateIdle,
	}
}

// SelectRange stores the candidate range, truncated to calendar days.
// Selection is not a phase change. It is ignored while a submission is in
// flight and after success; a failed session is still selectable so the user
// can adjust dates before retrying.
func (s *Session) SelectRange(from, to time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting || s.state == StateSucceeded {
		return
	}
	s.from, s.to = availability.Day(from), availability.Day(to)
}

// Submit evaluates the guard and, if it passes, issues exactly one
// booking-creation request. Guard rejections leave the session Idle with the
// rejection exposed via Err and perform no network call. Upstream failures
// move the session to Failed but keep the candidate range so a retry does not
// require reselecting dates. Calling Submit while a request is in flight, or
// after success without Reset, returns a sentinel without side effects.
func (s *Session) Submit(ctx context.Context, reqCtx Context, set availability.IntervalSet) (*models.Booking, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return nil, models.ErrSubmitInFlight
	case StateSucceeded:
		s.mu.Unlock()
		return nil, models.ErrSessionFinished
	}

	from, to := s.from, s.to
	if err := Validate(reqCtx, from, to, set); err != nil {
		s.state = StateIdle
		s.err = err
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateSubmitting
	s.err = nil
	guests := reqCtx.Guests
	venueID := s.venueID
	s.mu.Unlock()

	// The only suspending operation. The lock is not held across it so
	// concurrent callers observe StateSubmitting and back off.
	created, err := s.creator.CreateBooking(ctx, models.CreateBookingRequest{
		VenueID:  venueID,
		DateFrom: from,
		DateTo:   to,
		Guests:   guests,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Error("booking submission failed",
			zap.String("venue_id", venueID), zap.Error(err))
		s.state = StateFailed
		s.err = models.ErrBookingFailed
		return nil, s.err
	}
	s.state = StateSucceeded
	s.from, s.to = time.Time{}, time.Time{}
	s.err = nil
	return created, nil
}

// Reset returns the session to Idle, clearing the candidate range and any
// error. Resetting an Idle session with no selection is a no-op. A reset is
// ignored while a request is in flight.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return
	}
	s.state = StateIdle
	s.from, s.to = time.Time{}, time.Time{}
	s.err = nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the most recent guard rejection or submission failure.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Range returns the current candidate range.
func (s *Session) Range() (from, to time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.from, s.to
}

package service

import (
	"context"
	"errors"
	"fmt"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/availability"
	"github.com/chrisdamba/holidaze/internal/booking"
	"github.com/chrisdamba/holidaze/internal/ports"
	"github.com/chrisdamba/holidaze/pkg/holidaze"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bookingService struct {
	store  ports.BookingStore
	venues ports.VenueFetcher
	client ports.BookingClient
	log    *zap.Logger
}

func NewBookingService(store ports.BookingStore, venues ports.VenueFetcher, client ports.BookingClient, logger *zap.Logger) *bookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bookingService{
		store:  store,
		venues: venues,
		client: client,
		log:    logger,
	}
}

// VenueAvailability fetches the venue with its bookings and materializes the
// occupied-day list for calendar widgets.
func (s *bookingService) VenueAvailability(ctx context.Context, venueID string) (*models.AvailabilityResponse, error) {
	if _, err := uuid.Parse(venueID); err != nil {
		return nil, models.ErrInvalidUUID
	}

	venue, err := s.fetchVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	set := availability.FromBookings(venue.Bookings, s.log)
	days := set.Expand()
	booked := make([]string, len(days))
	for i, d := range days {
		booked[i] = d.Format(availability.DayFormat)
	}

	return &models.AvailabilityResponse{
		VenueID:     venue.ID,
		Name:        venue.Name,
		Price:       venue.Price,
		MaxGuests:   venue.MaxGuests,
		BookedDates: booked,
	}, nil
}

// CreateBooking drives a full submission: fetch the venue's current bookings,
// build the interval set, run a session against it, and record the accepted
// booking locally. The session enforces guard ordering and the single
// in-flight rule; a guard rejection never reaches the upstream API.
func (s *bookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest, reqCtx booking.Context) (*models.Booking, error) {
	if _, err := uuid.Parse(req.VenueID); err != nil {
		return nil, models.ErrInvalidUUID
	}

	venue, err := s.fetchVenue(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	reqCtx.MaxGuests = venue.MaxGuests
	reqCtx.Guests = req.Guests

	set := availability.FromBookings(venue.Bookings, s.log)
	sess := booking.NewSession(req.VenueID, s.client, s.log)
	sess.SelectRange(req.DateFrom, req.DateTo)

	created, err := sess.Submit(ctx, reqCtx, set)
	if err != nil {
		return nil, err
	}
	created.VenueName = venue.Name
	created.Customer = reqCtx.Name

	// The upstream API is authoritative: its booking exists whether or not
	// the local record write succeeds, so a store failure is logged rather
	// than failing the request.
	saved, err := s.store.RecordBooking(ctx, created)
	if err != nil {
		s.log.Error("recording booking locally failed",
			zap.String("booking_id", created.ID.String()), zap.Error(err))
		return created, nil
	}
	return saved, nil
}

func (s *bookingService) AllBookings(ctx context.Context, req models.GetBookingsRequest) (*models.AllBookingsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	bookings, nextCursor, err := s.store.GetBookingsPaginated(ctx, req.Cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}

	response := &models.AllBookingsResponse{
		Bookings: make([]models.BookingResponse, len(bookings)),
		Limit:    limit,
		Cursor:   nextCursor,
	}
	for i, b := range bookings {
		response.Bookings[i] = models.BookingResponse{Booking: b}
	}
	return response, nil
}

// CancelBooking deletes the booking upstream and marks the local record
// cancelled. Only confirmed bookings are cancellable.
func (s *bookingService) CancelBooking(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrInvalidUUID
	}

	b, err := s.store.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != models.StatusConfirmed {
		return fmt.Errorf("cannot cancel booking with status %s", b.Status)
	}

	if err := s.client.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("error cancelling booking upstream: %w", err)
	}
	return s.store.CancelBooking(ctx, id)
}

func (s *bookingService) fetchVenue(ctx context.Context, id string) (*models.Venue, error) {
	venue, err := s.venues.GetVenue(ctx, id, true)
	if err != nil {
		if errors.Is(err, holidaze.ErrNotFound) {
			return nil, models.ErrVenueNotFound
		}
		return nil, fmt.Errorf("error fetching venue: %w", err)
	}
	return venue, nil
}

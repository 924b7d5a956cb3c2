package ports

import (
	"context"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/booking"
)

type VenueFetcher interface {
	GetVenue(ctx context.Context, id string, withBookings bool) (*models.Venue, error)
	SearchVenues(ctx context.Context, query string, limit int) ([]models.Venue, error)
}

// BookingClient is the upstream booking surface. It embeds booking.Creator so
// the same client instance can back a submission session.
type BookingClient interface {
	booking.Creator
	DeleteBooking(ctx context.Context, id string) error
}

type AuthClient interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, name string) (*models.Profile, error)
}

// BookingStore records bookings created through this gateway and serves the
// customer and manager booking views.
type BookingStore interface {
	RecordBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsPaginated(ctx context.Context, afterCursor string, limit int) ([]models.Booking, string, error)
	CancelBooking(ctx context.Context, id string) error
}

type BookingService interface {
	VenueAvailability(ctx context.Context, venueID string) (*models.AvailabilityResponse, error)
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest, reqCtx booking.Context) (*models.Booking, error)
	AllBookings(ctx context.Context, req models.GetBookingsRequest) (*models.AllBookingsResponse, error)
	CancelBooking(ctx context.Context, id string) error
}

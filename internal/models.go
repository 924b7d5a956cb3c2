package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer     Role = "customer"
	RoleVenueManager Role = "venue_manager"
)

// RoleFromVenueManager maps the upstream venueManager flag onto a role.
func RoleFromVenueManager(venueManager bool) Role {
	if venueManager {
		return RoleVenueManager
	}
	return RoleCustomer
}

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// BookingRecord is a booking as the upstream marketplace API returns it.
// Dates stay raw wire strings; the availability layer parses them and skips
// records it cannot parse.
type BookingRecord struct {
	ID       string `json:"id"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Guests   int    `json:"guests"`
}

type VenueLocation struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	Zip     string  `json:"zip"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Long    float64 `json:"long"`
}

type VenueMedia struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Venue struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Rating      float64         `json:"rating"`
	MaxGuests   int             `json:"maxGuests"`
	Location    VenueLocation   `json:"location"`
	Media       []VenueMedia    `json:"media"`
	Bookings    []BookingRecord `json:"bookings,omitempty"`
}

// CreateBookingRequest is the inbound create payload. Dates and guests carry
// no validate tags: the booking guard checks them in a fixed order so the
// rejection reported for a bad request is deterministic.
type CreateBookingRequest struct {
	VenueID  string    `json:"venue_id" validate:"required,valid_uuid"`
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`
	Guests   int       `json:"guests"`
}

// Booking is a booking as recorded by this gateway after the upstream API
// accepted it.
type Booking struct {
	ID        uuid.UUID     `json:"id"`
	VenueID   string        `json:"venue_id"`
	VenueName string        `json:"venue_name,omitempty"`
	Customer  string        `json:"customer"`
	DateFrom  time.Time     `json:"date_from"`
	DateTo    time.Time     `json:"date_to"`
	Guests    int           `json:"guests"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type BookingResponse struct {
	Booking
}

type AllBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Limit    int               `json:"limit"`
	Cursor   string            `json:"cursor"`
}

type GetBookingsRequest struct {
	Limit  int
	Cursor string
}

/// AvailabilityResponse feeds calendar widgets: BookedDates is the
// materialized disabled-date list, one YYYY-MM-DD entry per occupied day.
type AvailabilityResponse struct {
	VenueID     string   `json:"venue_id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	MaxGuests   int      `json:"max_guests"`
	BookedDates []string `json:"booked_dates"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterRequest struct {
	Name         string `json:"name" validate:"required,name_length"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	VenueManager bool   `json:"venue_manager"`
}

type AuthResponse struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar,omitempty"`
	AccessToken  string `json:"access_token"`
	VenueManager bool   `json:"venue_manager"`
	Role         Role   `json:"role"`
}

type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	VenueManager bool   `json:"venueManager"`
}

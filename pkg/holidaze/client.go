// Package holidaze is the HTTP client for the upstream venue-booking
// marketplace API. Responses arrive wrapped in a {"data": ...} envelope,
// which every call unwraps before decoding.
package holidaze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/auth"
	"github.com/google/uuid"
)

type Client struct {
	httpClient HTTPClient
	baseURL    string
	apiKey     string
}

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Option func(*Client)

var (
	ErrNotFound      error = errors.New("resource not found upstream")
	ErrUnauthorized  error = errors.New("upstream rejected credentials")
	ErrBadStatusCode error = errors.New("invalid status code from upstream api")
)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://v2.api.noroff.dev",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// wire shapes for the upstream booking surface

type bookingPayload struct {
	VenueID  string `json:"venueId"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Guests   int    `json:"guests"`
}

type bookingRecord struct {
	ID       string    `json:"id"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	Guests   int       `json:"guests"`
	Created  time.Time `json:"created"`
}

type authPayload struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Manager  *bool  `json:"venueManager,omitempty"`
}

type authRecord struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	VenueManager bool   `json:"venueManager"`
	Avatar       struct {
		URL string `json:"url"`
	} `json:"avatar"`
}

// GetVenue fetches a venue by id, optionally including its bookings.
func (c *Client) GetVenue(ctx context.Context, id string, withBookings bool) (*models.Venue, error) {
	u := fmt.Sprintf("%s/holidaze/venues/%s", c.baseURL, id)
	if withBookings {
		u += "?_bookings=true"
	}
	var venue models.Venue
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &venue); err != nil {
		return nil, err
	}
	return &venue, nil
}

// SearchVenues queries venues by free-text search.
func (c *Client) SearchVenues(ctx context.Context, query string, limit int) ([]models.Venue, error) {
	u := fmt.Sprintf("%s/holidaze/venues/search?q=%s", c.baseURL, url.QueryEscape(query))
	if limit > 0 {
		u += fmt.Sprintf("&limit=%d", limit)
	}
	var venues []models.Venue
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// CreateBooking submits a booking upstream. The caller's bearer token is
// taken from ctx (auth.WithToken); the upstream API is the one verifying it.
func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	u := fmt.Sprintf("%s/holidaze/bookings", c.baseURL)
	payload := bookingPayload{
		VenueID:  req.VenueID,
		DateFrom: req.DateFrom.UTC().Format(time.RFC3339),
		DateTo:   req.DateTo.UTC().Format(time.RFC3339),
		Guests:   req.Guests,
	}
	var rec bookingRecord
	if err := c.doJSON(ctx, http.MethodPost, u, payload, &rec); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rec.ID)
	if err != nil {
		id = uuid.New()
	}
	created := rec.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return &models.Booking{
		ID:        id,
		VenueID:   req.VenueID,
		DateFrom:  rec.DateFrom,
		DateTo:    rec.DateTo,
		Guests:    rec.Guests,
		Status:    models.StatusConfirmed,
		CreatedAt: created,
	}, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/holidaze/bookings/%s", c.baseURL, id)
	return c.doJSON(ctx, http.MethodDelete, u, nil, nil)
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	u := fmt.Sprintf("%s/auth/login?_holidaze=true", c.baseURL)
	var rec authRecord
	err := c.doJSON(ctx, http.MethodPost, u, authPayload{Email: req.Email, Password: req.Password}, &rec)
	if err != nil {
		return nil, err
	}
	return rec.toAuthResponse(), nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	u := fmt.Sprintf("%s/auth/register", c.baseURL)
	payload := authPayload{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Manager:  &req.VenueManager,
	}
	var rec authRecord
	if err := c.doJSON(ctx, http.MethodPost, u, payload, &rec); err != nil {
		return nil, err
	}
	return rec.toAuthResponse(), nil
}

func (c *Client) GetProfile(ctx context.Context, name string) (*models.Profile, error) {
	u := fmt.Sprintf("%s/holidaze/profiles/%s", c.baseURL, url.PathEscape(name))
	var profile models.Profile
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *authRecord) toAuthResponse() *models.AuthResponse {
	return &models.AuthResponse{
		Name:         r.Name,
		Email:        r.Email,
		Avatar:       r.Avatar.URL,
		AccessToken:  r.AccessToken,
		VenueManager: r.VenueManager,
		Role:         models.RoleFromVenueManager(r.VenueManager),
	}
}

// doJSON performs one request against the upstream API. Non-2xx statuses map
// to the sentinel errors above; 2xx bodies are unwrapped from the data
// envelope into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, u string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Add("X-Noroff-API-Key", c.apiKey)
	}
	if token := auth.TokenFromContext(ctx); token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %d", ErrBadStatusCode, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}
	if len(envelope.Data) == 0 {
		// some endpoints skip the envelope
		return json.Unmarshal(body, out)
	}
	return json.Unmarshal(envelope.Data, out)
}

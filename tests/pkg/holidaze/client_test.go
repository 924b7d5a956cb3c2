package holidaze_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/auth"
	"github.com/chrisdamba/holidaze/pkg/holidaze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body interface{}) *http.Response {
	raw, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(raw)),
	}
}

func envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{"data": data}
}

func TestGetVenue(t *testing.T) {
	venueID := uuid.NewString()

	t.Run("includes bookings when asked", func(t *testing.T) {
		var gotURL string
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				gotURL = req.URL.String()
				return jsonResponse(http.StatusOK, envelope(models.Venue{
					ID:        venueID,
					Name:      "Seaside Cabin",
					MaxGuests: 4,
					Bookings: []models.BookingRecord{
						{ID: uuid.NewString(), DateFrom: "2024-06-10", DateTo: "2024-06-15", Guests: 2},
					},
				})), nil
			},
		}
		client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

		venue, err := client.GetVenue(context.Background(), venueID, true)
		require.NoError(t, err)
		assert.Equal(t, "https://v2.api.noroff.dev/holidaze/venues/"+venueID+"?_bookings=true", gotURL)
		assert.Equal(t, "Seaside Cabin", venue.Name)
		assert.Len(t, venue.Bookings, 1)
	})

	t.Run("maps 404 to ErrNotFound", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusNotFound, nil), nil
			},
		}
		client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

		_, err := client.GetVenue(context.Background(), venueID, false)
		assert.ErrorIs(t, err, holidaze.ErrNotFound)
	})

	t.Run("wraps other bad statuses", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadGateway, nil), nil
			},
		}
		client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

		_, err := client.GetVenue(context.Background(), venueID, false)
		assert.ErrorIs(t, err, holidaze.ErrBadStatusCode)
	})
}

func TestSearchVenues(t *testing.T) {
	mockClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/holidaze/venues/search", req.URL.Path)
			assert.Equal(t, "cabin by the sea", req.URL.Query().Get("q"))
			assert.Equal(t, "3", req.URL.Query().Get("limit"))
			return jsonResponse(http.StatusOK, envelope([]models.Venue{
				{ID: uuid.NewString(), Name: "Seaside Cabin"},
				{ID: uuid.NewString(), Name: "Forest Cabin"},
			})), nil
		},
	}
	client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

	venues, err := client.SearchVenues(context.Background(), "cabin by the sea", 3)
	require.NoError(t, err)
	assert.Len(t, venues, 2)
}

func TestCreateBooking(t *testing.T) {
	venueID := uuid.NewString()
	bookingID := uuid.New()
	req := models.CreateBookingRequest{
		VenueID:  venueID,
		DateFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Guests:   2,
	}

	t.Run("sends token and payload", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
				assert.Equal(t, "key-456", r.Header.Get("X-Noroff-API-Key"))

				var payload map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, venueID, payload["venueId"])
				assert.Equal(t, "2024-06-01T00:00:00Z", payload["dateFrom"])
				assert.Equal(t, float64(2), payload["guests"])

				return jsonResponse(http.StatusCreated, envelope(map[string]interface{}{
					"id":       bookingID.String(),
					"dateFrom": "2024-06-01T00:00:00Z",
					"dateTo":   "2024-06-05T00:00:00Z",
					"guests":   2,
					"created":  "2024-05-20T12:00:00Z",
				})), nil
			},
		}
		client := holidaze.NewClient(
			holidaze.WithHTTPClient(mockClient),
			holidaze.WithAPIKey("key-456"),
		)

		ctx := auth.WithToken(context.Background(), "tok-123")
		created, err := client.CreateBooking(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, bookingID, created.ID)
		assert.Equal(t, venueID, created.VenueID)
		assert.Equal(t, models.StatusConfirmed, created.Status)
		assert.Equal(t, 2024, created.CreatedAt.Year())
	})

	t.Run("rejected token", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusUnauthorized, nil), nil
			},
		}
		client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

		_, err := client.CreateBooking(context.Background(), req)
		assert.ErrorIs(t, err, holidaze.ErrUnauthorized)
	})
}

func TestDeleteBooking(t *testing.T) {
	bookingID := uuid.NewString()
	mockClient := &mockHTTPClient{
		doFunc: func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/holidaze/bookings/"+bookingID, r.URL.Path)
			return &http.Response{
				StatusCode: http.StatusNoContent,
				Body:       io.NopCloser(bytes.NewReader(nil)),
			}, nil
		},
	}
	client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

	assert.NoError(t, client.DeleteBooking(context.Background(), bookingID))
}

func TestLogin(t *testing.T) {
	mockClient := &mockHTTPClient{
		doFunc: func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.Equal(t, "true", r.URL.Query().Get("_holidaze"))
			return jsonResponse(http.StatusOK, envelope(map[string]interface{}{
				"name":         "alice",
				"email":        "alice@example.com",
				"accessToken":  "tok",
				"venueManager": true,
				"avatar":       map[string]string{"url": "https://img.example/a.png"},
			})), nil
		},
	}
	client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

	ans, err := client.Login(context.Background(), models.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", ans.AccessToken)
	assert.Equal(t, models.RoleVenueManager, ans.Role)
	assert.Equal(t, "https://img.example/a.png", ans.Avatar)
}

func TestRegister(t *testing.T) {
	mockClient := &mockHTTPClient{
		doFunc: func(r *http.Request) (*http.Response, error) {
			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "bob", payload["name"])
			assert.Equal(t, false, payload["venueManager"])
			return jsonResponse(http.StatusCreated, envelope(map[string]interface{}{
				"name":  "bob",
				"email": "bob@example.com",
			})), nil
		},
	}
	client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

	ans, err := client.Register(context.Background(), models.RegisterRequest{
		Name:     "bob",
		Email:    "bob@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, ans.Role)
}

func TestGetProfile(t *testing.T) {
	t.Run("decodes a bare body without the envelope", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, "/holidaze/profiles/alice", r.URL.Path)
				return jsonResponse(http.StatusOK, models.Profile{
					Name:         "alice",
					VenueManager: true,
				}), nil
			},
		}
		client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

		profile, err := client.GetProfile(context.Background(), "alice")
		require.NoError(t, err)
		assert.True(t, profile.VenueManager)
	})

	t.Run("unauthorized", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusForbidden, nil), nil
			},
		}
		client := holidaze.NewClient(holidaze.WithHTTPClient(mockClient))

		_, err := client.GetProfile(context.Background(), "alice")
		assert.ErrorIs(t, err, holidaze.ErrUnauthorized)
	})
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/auth"
	"github.com/chrisdamba/holidaze/internal/ports"
	"github.com/chrisdamba/holidaze/internal/utils"
	"github.com/chrisdamba/holidaze/internal/validator"
	"github.com/chrisdamba/holidaze/pkg/holidaze"
)

// AvailabilityHandler serves the calendar model for a venue: its summary and
// the materialized booked-date list.
func AvailabilityHandler(service ports.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		venueID := r.URL.Query().Get("venue_id")
		if venueID == "" {
			ae := utils.NewBadRequest("venue_id is required")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := service.VenueAvailability(r.Context(), venueID)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, ans)
	}
}

func BookingHandler(service ports.BookingService, profiles auth.ProfileFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			create(service, profiles, w, r)
		case http.MethodGet:
			list(service, w, r)
		case http.MethodDelete:
			cancel(service, w, r)
		}
	}
}

func create(service ports.BookingService, profiles auth.ProfileFetcher, w http.ResponseWriter, r *http.Request) {
	var bookingRequest models.CreateBookingRequest
	if err := utils.JsonDecodeBody(r, &bookingRequest); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	v := validator.NewCustomValidator()
	if err := v.Validate(bookingRequest); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	identity := auth.FromRequest(r)
	ctx := auth.WithToken(r.Context(), identity.Token)
	reqCtx, err := auth.ResolveContext(ctx, identity, profiles)
	if err != nil {
		ae := utils.NewInternalServerError(err.Error())
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	ans, err := service.CreateBooking(ctx, &bookingRequest, reqCtx)
	if err != nil {
		ae := getApiError(err)
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(r, w, http.StatusCreated, ans)
}

func list(service ports.BookingService, w http.ResponseWriter, r *http.Request) {
	var req models.GetBookingsRequest
	req.Cursor = r.URL.Query().Get("cursor")
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			ae := utils.NewBadRequest("limit must be an integer")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		req.Limit = limit
	}

	ans, err := service.AllBookings(r.Context(), req)
	if err != nil {
		ae := getApiError(err)
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(r, w, http.StatusOK, ans)
}

func cancel(service ports.BookingService, w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		ae := utils.NewBadRequest("id is required")
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}

	identity := auth.FromRequest(r)
	ctx := auth.WithToken(r.Context(), identity.Token)

	if err := service.CancelBooking(ctx, id); err != nil {
		ae := getApiError(err)
		utils.RenderResponse(r, w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(r, w, http.StatusNoContent, nil)
}

// LoginHandler proxies credentials to the upstream marketplace API and
// returns its token plus the role derived from the venueManager flag.
func LoginHandler(client ports.AuthClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := utils.JsonDecodeBody(r, &req); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(req); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := client.Login(r.Context(), req)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusOK, ans)
	}
}

func RegisterHandler(client ports.AuthClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := utils.JsonDecodeBody(r, &req); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		v := validator.NewCustomValidator()
		if err := v.Validate(req); err != nil {
			ae := utils.NewBadRequest(err.Error())
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}

		ans, err := client.Register(r.Context(), req)
		if err != nil {
			ae := getApiError(err)
			utils.RenderResponse(r, w, ae.StatusCode, ae)
			return
		}
		utils.RenderResponse(r, w, http.StatusCreated, ans)
	}
}

func getApiError(err error) utils.ApiError {
	ae := utils.ApiError{Msg: err.Error()}
	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		ae.StatusCode = http.StatusUnauthorized
	case errors.Is(err, models.ErrManagerBooking):
		ae.StatusCode = http.StatusForbidden
	case errors.Is(err, models.ErrDatesRequired),
		errors.Is(err, models.ErrInvalidGuests),
		errors.Is(err, models.ErrInvalidUUID):
		ae.StatusCode = http.StatusBadRequest
	case errors.Is(err, models.ErrDatesUnavailable),
		errors.Is(err, models.ErrSubmitInFlight),
		errors.Is(err, models.ErrSessionFinished):
		ae.StatusCode = http.StatusConflict
	case errors.Is(err, models.ErrVenueNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, holidaze.ErrNotFound):
		ae.StatusCode = http.StatusNotFound
	case errors.Is(err, holidaze.ErrUnauthorized):
		ae.StatusCode = http.StatusUnauthorized
	case errors.Is(err, models.ErrBookingFailed):
		ae.StatusCode = http.StatusBadGateway
	default:
		ae.StatusCode = http.StatusInternalServerError
	}
	return ae
}

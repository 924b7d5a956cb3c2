package repository_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	models "github.com/chrisdamba/holidaze/internal"
	"github.com/chrisdamba/holidaze/internal/repository"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (pgxmock.PgxPoolIface, *repository.BookingRepository) {
	mockDb, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mockDb, repository.NewBookingRepository(mockDb)
}

func TestRecordBooking(t *testing.T) {
	mockDb, repo := setupMockDB(t)
	defer mockDb.Close()

	bookingID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	booking := &models.Booking{
		ID:        bookingID,
		VenueID:   uuid.NewString(),
		VenueName: "Seaside Cabin",
		Customer:  "alice",
		DateFrom:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Guests:    2,
		Status:    models.StatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}

	mockDb.ExpectBegin()

	insertQuery := regexp.QuoteMeta(`
        INSERT INTO bookings (id, venue_id, venue_name, customer, date_from, date_to, guests, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO NOTHING
    `)
	mockDb.ExpectExec(insertQuery).
		WithArgs(bookingID, booking.VenueID, booking.VenueName, booking.Customer,
			booking.DateFrom, booking.DateTo, booking.Guests, booking.Status, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mockDb.ExpectCommit()

	saved, err := repo.RecordBooking(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, bookingID, saved.ID)
	assert.Equal(t, booking.VenueID, saved.VenueID)
	assert.Equal(t, models.StatusConfirmed, saved.Status)
	assert.False(t, saved.CreatedAt.IsZero())

	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestRecordBooking_FillsDefaults(t *testing.T) {
	mockDb, repo := setupMockDB(t)
	defer mockDb.Close()

	booking := &models.Booking{
		VenueID:  uuid.NewString(),
		Customer: "bob",
		DateFrom: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		Guests:   1,
	}

	mockDb.ExpectBegin()
	mockDb.ExpectExec(`INSERT INTO bookings`).
		WithArgs(pgxmock.AnyArg(), booking.VenueID, "", "bob",
			booking.DateFrom, booking.DateTo, 1, models.StatusConfirmed, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockDb.ExpectCommit()

	saved, err := repo.RecordBooking(context.Background(), booking)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, models.StatusConfirmed, saved.Status)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestGetBookingByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		b := createMockBookings(1)[0]
		rows := createMockRows([]models.Booking{b})

		mockDb.ExpectQuery(formatQueryForRegex(`
            SELECT id, venue_id, venue_name, customer, date_from, date_to, guests, status, created_at
            FROM bookings
            WHERE id = $1`)).
			WithArgs(b.ID.String()).
			WillReturnRows(rows)

		got, err := repo.GetBookingByID(context.Background(), b.ID.String())
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
		assert.Equal(t, b.VenueName, got.VenueName)
		assert.Equal(t, b.Status, got.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		rows := pgxmock.NewRows(bookingColumns())
		mockDb.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(rows)

		_, err := repo.GetBookingByID(context.Background(), "missing")
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})
}

func TestGetBookingsPaginated(t *testing.T) {
	t.Run("successful query without cursor", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		limit := 2
		bookings := createMockBookings(2)
		rows := createMockRows(bookings)

		expectedQuery := `
            SELECT id, venue_id, venue_name, customer, date_from, date_to, guests, status, created_at
            FROM bookings
            ORDER BY created_at, id
            LIMIT $1`

		mockDb.ExpectQuery(formatQueryForRegex(expectedQuery)).
			WithArgs(limit).
			WillReturnRows(rows)

		result, cursor, err := repo.GetBookingsPaginated(context.Background(), "", limit)

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.NotEmpty(t, cursor)
		verifyBookings(t, bookings, result)
	})

	t.Run("successful query with cursor", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		limit := 2
		bookings := createMockBookings(2)
		cursorID := uuid.New()
		cursor := encodeCursor(time.Now(), cursorID)
		rows := createMockRows(bookings)

		expectedQuery := `
            SELECT id, venue_id, venue_name, customer, date_from, date_to, guests, status, created_at
            FROM bookings
            WHERE (created_at, id) > ($1, $2)
            ORDER BY created_at, id
            LIMIT $3`

		mockDb.ExpectQuery(formatQueryForRegex(expectedQuery)).
			WithArgs(pgxmock.AnyArg(), cursorID, limit).
			WillReturnRows(rows)

		result, nextCursor, err := repo.GetBookingsPaginated(context.Background(), cursor, limit)

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.NotEmpty(t, nextCursor)
		verifyBookings(t, bookings, result)
	})

	t.Run("last page returns no cursor", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		bookings := createMockBookings(1)
		rows := createMockRows(bookings)

		mockDb.ExpectQuery(`SELECT .* FROM bookings ORDER BY created_at, id LIMIT \$1`).
			WithArgs(5).
			WillReturnRows(rows)

		result, cursor, err := repo.GetBookingsPaginated(context.Background(), "", 5)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Empty(t, cursor)
	})

	t.Run("invalid cursor format", func(t *testing.T) {
		_, repo := setupMockDB(t)

		invalidCursor := base64.StdEncoding.EncodeToString([]byte("invalid"))

		_, _, err := repo.GetBookingsPaginated(context.Background(), invalidCursor, 10)
		assert.Error(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		mockDb.ExpectQuery(`SELECT .* FROM bookings.*`).
			WithArgs(10).
			WillReturnError(fmt.Errorf("database error"))

		_, _, err := repo.GetBookingsPaginated(context.Background(), "", 10)
		assert.Error(t, err)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("marks booking cancelled", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		id := uuid.NewString()
		mockDb.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = $1 WHERE id = $2`)).
			WithArgs(models.StatusCancelled, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.CancelBooking(context.Background(), id)
		assert.NoError(t, err)
		assert.NoError(t, mockDb.ExpectationsWereMet())
	})

	t.Run("unknown booking", func(t *testing.T) {
		mockDb, repo := setupMockDB(t)
		defer mockDb.Close()

		id := uuid.NewString()
		mockDb.ExpectExec(regexp.QuoteMeta(`UPDATE bookings SET status = $1 WHERE id = $2`)).
			WithArgs(models.StatusCancelled, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.CancelBooking(context.Background(), id)
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})
}

func bookingColumns() []string {
	return []string{
		"id", "venue_id", "venue_name", "customer",
		"date_from", "date_to", "guests", "status", "created_at",
	}
}

func createMockBookings(count int) []models.Booking {
	bookings := make([]models.Booking, count)
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		bookings[i] = models.Booking{
			ID:        uuid.New(),
			VenueID:   uuid.NewString(),
			VenueName: fmt.Sprintf("Venue %d", i+1),
			Customer:  fmt.Sprintf("customer%d", i+1),
			DateFrom:  baseTime.AddDate(0, i, 1),
			DateTo:    baseTime.AddDate(0, i, 5),
			Guests:    i + 1,
			Status:    models.StatusConfirmed,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Hour),
		}
	}
	return bookings
}

func createMockRows(bookings []models.Booking) *pgxmock.Rows {
	rows := pgxmock.NewRows(bookingColumns())
	for _, b := range bookings {
		rows.AddRow(
			b.ID, b.VenueID, b.VenueName, b.Customer,
			b.DateFrom, b.DateTo, b.Guests, b.Status, b.CreatedAt,
		)
	}
	return rows
}

func verifyBookings(t *testing.T, expected, actual []models.Booking) {
	require.Equal(t, len(expected), len(actual))
	for i := range expected {
		assert.Equal(t, expected[i].ID, actual[i].ID)
		assert.Equal(t, expected[i].VenueID, actual[i].VenueID)
		assert.Equal(t, expected[i].Customer, actual[i].Customer)
		assert.Equal(t, expected[i].Guests, actual[i].Guests)
		assert.Equal(t, expected[i].Status, actual[i].Status)
	}
}

func formatQueryForRegex(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	query = regexp.QuoteMeta(query)
	return fmt.Sprintf("^%s$", query)
}

func encodeCursor(t time.Time, id uuid.UUID) string {
	cursor := fmt.Sprintf("%s,%s", t.Format(time.RFC3339Nano), id.String())
	return base64.StdEncoding.EncodeToString([]byte(cursor))
}

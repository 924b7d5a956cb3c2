// Package availability converts a venue's existing bookings into a
// calendar-level availability model and answers date and range queries
// against it. All comparisons happen at day granularity in UTC.
package availability

import (
	"time"

	models "github.com/chrisdamba/holidaze/internal"
	"go.uber.org/zap"
)

// DayFormat is the wire format for materialized calendar days.
const DayFormat = "2006-01-02"

type interval struct {
	from time.Time
	to   time.Time
}

// IntervalSet holds the closed day intervals occupied by a venue's existing
// bookings, one per booking. It is rebuilt whenever the booking list is
// refetched and never mutated in place. Overlap between the stored intervals
// themselves is the upstream API's problem and is not coalesced here.
type IntervalSet struct {
	intervals []interval
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FromBookings builds an IntervalSet from raw upstream booking records.
// Reversed from/to pairs are swapped rather than rejected, and records whose
// dates do not parse are skipped with a warning. A nil logger is allowed.
func FromBookings(bookings []models.BookingRecord, logger *zap.Logger) IntervalSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	set := IntervalSet{intervals: make([]interval, 0, len(bookings))}
	for _, b := range bookings {
		from, err := parseDay(b.DateFrom)
		if err != nil {
			logger.Warn("skipping booking with malformed date_from",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		to, err := parseDay(b.DateTo)
		if err != nil {
			logger.Warn("skipping booking with malformed date_to",
				zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		if to.Before(from) {
			from, to = to, from
		}
		set.intervals = append(set.intervals, interval{from: from, to: to})
	}
	return set
}

// Contains reports whether the calendar day of d falls inside any stored
// interval, inclusive of both endpoints. A checkout day therefore counts as
// occupied: a new booking cannot start or end exactly on another booking's
// boundary. This is deliberately stricter than IsRangeFree, which uses the
// standard half-open overlap test; the calendar blocks turnover days while
// the final range check allows back-to-back stays.
func (s IntervalSet) Contains(d time.Time) bool {
	day := Day(d)
	for _, iv := range s.intervals {
		if !day.Before(iv.from) && !day.After(iv.to) {
			return true
		}
	}
	return false
}

// Expand materializes every occupied day across all intervals. Order follows
// the input bookings; duplicates from overlapping bookings are preserved, as
// calendar widgets only care about membership.
func (s IntervalSet) Expand() []time.Time {
	var days []time.Time
	for _, iv := range s.intervals {
		for d := iv.from; !d.After(iv.to); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	}
	return days
}

// Len returns the number of stored intervals.
func (s IntervalSet) Len() int {
	return len(s.intervals)
}

func parseDay(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return Day(t), nil
	}
	t, err = time.Parse(DayFormat, raw)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

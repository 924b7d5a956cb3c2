package availability

import "time"

// IsDateAvailable reports whether a single calendar day can be selected.
// Days strictly before today are never available, regardless of bookings;
// today is supplied by the caller so this stays pure and testable. Otherwise
// a day is available iff the set does not contain it.
func IsDateAvailable(d time.Time, set IntervalSet, today time.Time) bool {
	day := Day(d)
	if day.Before(Day(today)) {
		return false
	}
	return !set.Contains(day)
}

// IsRangeFree reports whether the candidate range [from, to] overlaps no
// existing booking. Two ranges overlap iff from < existing.to AND
// to > existing.from, both strict: a checkout equal to another booking's
// check-in does not overlap here even though Contains blocks that same day
// on the calendar. Both semantics are load-bearing; do not unify them.
func IsRangeFree(from, to time.Time, set IntervalSet) bool {
	f, t := Day(from), Day(to)
	for _, iv := range set.intervals {
		if f.Before(iv.to) && t.After(iv.from) {
			return false
		}
	}
	return true
}

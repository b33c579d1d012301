package domain

import "time"

// Calendar-day arithmetic used by the recurrence engine.
//
// All dates are plain local calendar days: no time-of-day, no timezone
// conversion. Everything here normalizes through Midnight first so that
// callers can pass timestamps freely.

// Midnight truncates t to 00:00:00 in its own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds n calendar months to t with month-end clamping:
// Jan 31 + 1 month is the last valid day of February, never an overflow
// into March. This differs from time.Time.AddDate, which normalizes
// overflow days forward.
func AddMonths(t time.Time, n int) time.Time {
	year := t.Year()
	month := int(t.Month()) - 1 + n
	year += month / 12
	month %= 12
	if month < 0 {
		month += 12
		year--
	}
	m := time.Month(month + 1)

	day := t.Day()
	if last := DaysInMonth(year, m); day > last {
		day = last
	}
	return time.Date(year, m, day, 0, 0, 0, 0, t.Location())
}

// AddYears adds n calendar years to t with the same clamping rule
// (Feb 29 + 1 year is Feb 28).
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// AddWeeks adds n whole weeks to t.
func AddWeeks(t time.Time, n int) time.Time {
	return Midnight(t).AddDate(0, 0, 7*n)
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DaysBetween returns the whole-calendar-day difference a - b.
// Negative when a is before b; general callers rely on that.
func DaysBetween(a, b time.Time) int {
	// Rebuild both days in UTC so a DST transition between them
	// cannot skew the division.
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ua.Sub(ub) / (24 * time.Hour))
}

// EndOfMonth returns the last calendar day of the month containing t.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), DaysInMonth(t.Year(), t.Month()), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns the first calendar day of the month containing t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

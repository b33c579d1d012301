package domain

import "time"

// Recurrence engine: derives billing occurrences from FirstBillDate and the
// billing cycle. Everything here is pure; the same inputs always produce the
// same output, and nothing mutates the subscription.

const (
	// MaxNextSteps caps the walk in NextOccurrence. Hitting it means a
	// pathological start date; the engine then falls back to the
	// reference date instead of looping.
	MaxNextSteps = 1000

	// MaxMonthlySteps caps single-month stepping in OccurrencesInMonth
	// after the year-level fast-forward.
	MaxMonthlySteps = 24

	// MaxWeeklySteps caps week stepping in OccurrencesInMonth after the
	// whole-week fast-forward.
	MaxWeeklySteps = 10000
)

// occurrenceAt returns the k-th occurrence counted from first (k = 0 is
// first itself). Monthly and yearly occurrences are always computed from
// the original start day, so clamping never compounds: a Jan 31 start
// yields Feb 29 and then Mar 31, not Mar 29.
func occurrenceAt(first time.Time, cycle BillingCycle, k int) time.Time {
	switch cycle {
	case CycleWeekly:
		return AddWeeks(first, k)
	case CycleMonthly:
		return AddMonths(first, k)
	case CycleYearly:
		return AddYears(first, k)
	}
	// Unreachable for validated subscriptions; Validate rejects unknown
	// cycles before a record enters the system.
	return first
}

// NextOccurrence returns the earliest occurrence that is not strictly
// before ref's calendar day (today or later).
//
// When FirstBillDate is unknown, or the safety cap is exhausted, it returns
// ref's day itself. Callers must treat that as "unknown", not as a real
// billing date.
func NextOccurrence(sub *Subscription, ref time.Time) time.Time {
	next, _ := nextOccurrence(sub, ref)
	return next
}

func nextOccurrence(sub *Subscription, ref time.Time) (time.Time, int) {
	today := Midnight(ref)
	if sub.FirstBillDate.IsZero() {
		return today, 0
	}

	first := Midnight(sub.FirstBillDate)

	// Fast-forward: jump straight to within one year of today before
	// stepping cycle by cycle. Keeps step counts flat for start dates
	// decades in the past.
	k := fastForwardSteps(first, today, sub.Cycle)

	for steps := 0; steps <= MaxNextSteps; steps++ {
		candidate := occurrenceAt(first, sub.Cycle, k)
		if !candidate.Before(today) {
			return candidate, steps
		}
		k++
	}
	return today, MaxNextSteps
}

// fastForwardSteps returns a step index k such that occurrence k is within
// roughly one year before target, clamped so that k is never negative
// (occurrences before FirstBillDate do not exist).
func fastForwardSteps(first, target time.Time, cycle BillingCycle) int {
	years := target.Year() - first.Year() - 1
	if years < 1 {
		return 0
	}
	switch cycle {
	case CycleWeekly:
		return years * 52
	case CycleMonthly:
		return years * 12
	case CycleYearly:
		return years
	}
	return 0
}

// OccurrencesInMonth returns every calendar day in anchor's month on which
// a billing event occurs, ascending, never before FirstBillDate. The result
// is empty for inactive subscriptions and for subscriptions without a known
// first bill date.
func OccurrencesInMonth(sub *Subscription, anchor time.Time) []time.Time {
	dates, _ := occurrencesInMonth(sub, anchor)
	return dates
}

func occurrencesInMonth(sub *Subscription, anchor time.Time) ([]time.Time, int) {
	if !sub.Active || sub.Deleted || sub.FirstBillDate.IsZero() {
		return nil, 0
	}

	first := Midnight(sub.FirstBillDate)
	monthStart := StartOfMonth(anchor)
	monthEnd := EndOfMonth(anchor)
	if monthEnd.Before(first) {
		return nil, 0
	}

	switch sub.Cycle {
	case CycleWeekly:
		return weeklyOccurrences(first, monthStart, monthEnd)
	case CycleMonthly:
		return monthlyOccurrences(first, monthStart, monthEnd)
	case CycleYearly:
		return yearlyOccurrences(first, monthStart)
	}
	return nil, 0
}

// monthlyOccurrences fast-forwards by whole years, then steps single months.
// At most one date per month, so the result has at most one entry.
func monthlyOccurrences(first, monthStart, monthEnd time.Time) ([]time.Time, int) {
	k := fastForwardSteps(first, monthStart, CycleMonthly)

	for steps := 0; steps <= MaxMonthlySteps; steps++ {
		d := occurrenceAt(first, CycleMonthly, k)
		if d.After(monthEnd) {
			return nil, steps
		}
		if !d.Before(monthStart) && !d.Before(first) {
			return []time.Time{d}, steps
		}
		k++
	}
	return nil, MaxMonthlySteps
}

// yearlyOccurrences steps whole years from first. One occurrence per year,
// so at most one result.
func yearlyOccurrences(first, monthStart time.Time) ([]time.Time, int) {
	years := monthStart.Year() - first.Year()
	if years < 0 {
		return nil, 0
	}
	d := AddYears(first, years)
	if !SameMonth(d, monthStart) || d.Before(first) {
		return nil, 1
	}
	return []time.Time{d}, 1
}

// weeklyOccurrences fast-forwards in whole weeks to within about a year of
// the month, then walks week by week. Week jumps preserve the weekday, so
// the phase of the series survives the fast-forward.
func weeklyOccurrences(first, monthStart, monthEnd time.Time) ([]time.Time, int) {
	d := first
	if gap := DaysBetween(monthStart, first); gap > 366 {
		d = AddWeeks(first, (gap-366)/7)
	}
	// Occurrences before first do not exist.
	if d.Before(first) {
		d = first
	}

	var dates []time.Time
	steps := 0
	for ; steps <= MaxWeeklySteps; steps++ {
		if d.After(monthEnd) {
			break
		}
		if !d.Before(monthStart) {
			dates = append(dates, d)
		}
		d = AddWeeks(d, 1)
	}
	return dates, steps
}

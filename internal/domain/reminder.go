package domain

import (
	"sort"
	"time"
)

// Upcoming pairs a subscription with its next occurrence relative to a
// reference date.
type Upcoming struct {
	Sub      *Subscription
	NextDate time.Time
	DaysLeft int
}

// UpcomingWithin filters the collection down to active subscriptions whose
// next occurrence falls within the window [0, days] counted from ref
// (inclusive both ends: due today qualifies, overdue does not).
//
// The result is sorted ascending by DaysLeft; ties keep the original
// collection order.
func UpcomingWithin(subs []*Subscription, days int, ref time.Time) []Upcoming {
	today := Midnight(ref)

	upcoming := make([]Upcoming, 0, len(subs))
	for _, sub := range subs {
		if !sub.Active || sub.Deleted {
			continue
		}
		// No first bill date means NextOccurrence degrades to "today",
		// which is not a real due date. Keep those out of the window.
		if sub.FirstBillDate.IsZero() {
			continue
		}

		next := NextOccurrence(sub, today)
		left := DaysBetween(next, today)
		if left < 0 || left > days {
			continue
		}
		upcoming = append(upcoming, Upcoming{Sub: sub, NextDate: next, DaysLeft: left})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysLeft < upcoming[j].DaysLeft
	})

	return upcoming
}

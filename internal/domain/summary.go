package domain

import "time"

// MonthSummary aggregates the spend of a calendar month. A subscription
// contributes price × number of occurrences in the month, so a weekly
// subscription counts four or five times.
type MonthSummary struct {
	Month      time.Time
	Total      float64
	ByCategory map[Category]float64
	Charges    int
}

// SummarizeMonth computes the spend total for the month containing anchor.
// Inactive and deleted subscriptions contribute nothing, matching
// OccurrencesInMonth.
func SummarizeMonth(subs []*Subscription, anchor time.Time) MonthSummary {
	summary := MonthSummary{
		Month:      StartOfMonth(anchor),
		ByCategory: make(map[Category]float64),
	}

	for _, sub := range subs {
		n := len(OccurrencesInMonth(sub, anchor))
		if n == 0 {
			continue
		}
		amount := sub.Price * float64(n)
		summary.Total += amount
		summary.ByCategory[sub.Category] += amount
		summary.Charges += n
	}

	return summary
}

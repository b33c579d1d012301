package domain

import (
	"fmt"
	"time"
)

// FormatReminder renders a human-readable reminder line for manual sharing
// (clipboard, chat, email). Deterministic string building, no locale
// negotiation, no side effects.
//
// Examples:
//
//	Netflix is due today: 9.99 EUR (2025-03-01)
//	Netflix is due in 3 days: 9.99 EUR (2025-03-04)
//	Netflix is overdue: 9.99 EUR (2025-02-26)
func FormatReminder(sub *Subscription, daysLeft int, next time.Time) string {
	var when string
	switch {
	case daysLeft == 0:
		when = "due today"
	case daysLeft == 1:
		when = "due in 1 day"
	case daysLeft > 1:
		when = fmt.Sprintf("due in %d days", daysLeft)
	default:
		when = "overdue"
	}
	return fmt.Sprintf("%s is %s: %.2f %s (%s)",
		sub.Name, when, sub.Price, sub.Currency, next.Format("2006-01-02"))
}

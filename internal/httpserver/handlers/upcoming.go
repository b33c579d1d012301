package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
)

type upcomingEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	BillingCycle string  `json:"billing_cycle"`
	Category     string  `json:"category"`
	NextBillDate string  `json:"next_bill_date"`
	DaysLeft     int     `json:"days_left"`
	Urgent       bool    `json:"urgent"`
	Message      string  `json:"message"`
}

type upcomingResponse struct {
	WindowDays int             `json:"window_days"`
	Entries    []upcomingEntry `json:"entries"`
}

// Upcoming lists renewals due within the window, soonest first.
func Upcoming(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := d.WindowDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 || n > 366 {
				writeError(w, http.StatusBadRequest, "days must be an integer between 0 and 366")
				return
			}
			days = n
		}

		now := d.Now()
		items := domain.UpcomingWithin(d.MemoryIndex.Visible(), days, now)

		entries := make([]upcomingEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, upcomingEntry{
				ID:           item.Sub.ID,
				Name:         item.Sub.Name,
				Price:        item.Sub.Price,
				Currency:     item.Sub.Currency,
				BillingCycle: string(item.Sub.Cycle),
				Category:     string(item.Sub.Category),
				NextBillDate: item.NextDate.Format("2006-01-02"),
				DaysLeft:     item.DaysLeft,
				Urgent:       item.DaysLeft <= d.UrgentDays,
				Message:      domain.FormatReminder(item.Sub, item.DaysLeft, item.NextDate),
			})
		}

		writeJSON(w, http.StatusOK, upcomingResponse{
			WindowDays: days,
			Entries:    entries,
		})
	}
}

package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
)

type calendarCharge struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Category string  `json:"category"`
}

type calendarDay struct {
	Date    string           `json:"date"`
	Charges []calendarCharge `json:"charges"`
}

type calendarResponse struct {
	Month string        `json:"month"`
	Total float64       `json:"total"`
	Days  []calendarDay `json:"days"`
}

// parseMonth reads an optional ?month=YYYY-MM query parameter.
func parseMonth(r *http.Request, now time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return now, true
	}
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, false
	}
	return month, true
}

// Calendar lays out every charge of a month on its calendar day.
func Calendar(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		anchor, ok := parseMonth(r, d.Now())
		if !ok {
			writeError(w, http.StatusBadRequest, "month must be formatted YYYY-MM")
			return
		}

		byDay := make(map[string][]calendarCharge)
		var total float64

		for _, sub := range d.MemoryIndex.Visible() {
			for _, date := range domain.OccurrencesInMonth(sub, anchor) {
				key := date.Format("2006-01-02")
				byDay[key] = append(byDay[key], calendarCharge{
					ID:       sub.ID,
					Name:     sub.Name,
					Price:    sub.Price,
					Currency: sub.Currency,
					Category: string(sub.Category),
				})
				total += sub.Price
			}
		}

		days := make([]calendarDay, 0, len(byDay))
		for date, charges := range byDay {
			days = append(days, calendarDay{Date: date, Charges: charges})
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

		writeJSON(w, http.StatusOK, calendarResponse{
			Month: domain.StartOfMonth(anchor).Format("2006-01"),
			Total: total,
			Days:  days,
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	redisstore "github.com/MrSnakeDoc/subtrack/internal/store/redis"
)

type summaryResponse struct {
	Month      string             `json:"month"`
	Total      float64            `json:"total"`
	Charges    int                `json:"charges"`
	ByCategory map[string]float64 `json:"by_category"`
	Commentary string             `json:"commentary,omitempty"`
}

// Summary aggregates the spend of a month, optionally with an AI remark.
func Summary(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		anchor, ok := parseMonth(r, d.Now())
		if !ok {
			writeError(w, http.StatusBadRequest, "month must be formatted YYYY-MM")
			return
		}

		summary := domain.SummarizeMonth(d.MemoryIndex.Visible(), anchor)

		resp := summaryResponse{
			Month:      summary.Month.Format("2006-01"),
			Total:      summary.Total,
			Charges:    summary.Charges,
			ByCategory: make(map[string]float64, len(summary.ByCategory)),
		}
		for category, amount := range summary.ByCategory {
			resp.ByCategory[string(category)] = amount
		}

		if r.URL.Query().Get("commentary") == "1" {
			resp.Commentary = commentaryFor(r, d, summary)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// commentaryFor returns the cached or freshly generated month commentary.
// Failures degrade to an empty string; the numbers are the product, the
// remark is garnish.
func commentaryFor(r *http.Request, d deps.Deps, summary domain.MonthSummary) string {
	if d.Assistant == nil {
		return ""
	}
	ctx := r.Context()
	month := summary.Month.Format("2006-01")

	if d.Store != nil {
		if cached, err := d.Store.GetCachedCommentary(ctx, month); err == nil && cached != "" {
			return cached
		}
	}

	text, err := d.Assistant.Commentary(ctx, summary)
	if err != nil {
		d.Logger.Warn("month commentary generation failed",
			logger.String("month", month),
			logger.Error(err))
		return ""
	}

	if d.Store != nil {
		if err := d.Store.CacheCommentary(ctx, month, text, redisstore.DefaultCommentaryTTL); err != nil {
			d.Logger.Debug("failed to cache month commentary",
				logger.Error(err))
		}
	}
	return text
}

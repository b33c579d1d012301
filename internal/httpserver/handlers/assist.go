package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
)

type assistRequest struct {
	Text string `json:"text"`
}

// Assist turns a free-text description into a subscription draft. The
// caller reviews the draft and submits it through the normal create
// endpoint; nothing is stored here.
func Assist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Assistant == nil {
			writeError(w, http.StatusServiceUnavailable, "AI assist is not configured")
			return
		}

		var req assistRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		text := strings.TrimSpace(req.Text)
		if text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		draft, err := d.Assistant.ExtractSubscription(r.Context(), text)
		if err != nil {
			d.Logger.Warn("subscription extraction failed",
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "extraction failed, try rephrasing")
			return
		}

		writeJSON(w, http.StatusOK, draft)
	}
}

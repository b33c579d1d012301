package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/mw"
)

func init() { Register(registerAssist) }

func registerAssist(r chi.Router, d deps.Deps) {
	// Every assist call costs an upstream AI request; keep it throttled.
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             3,
		RefillPerIPPerMin: 6,
		MaxEntries:        1024,
		TrustProxy:        d.TrustProxy,
	})
	r.With(limit).Post("/api/assist", handlers.Assist(d))
}

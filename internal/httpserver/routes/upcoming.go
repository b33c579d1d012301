package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/handlers"
)

func init() { Register(registerUpcoming) }

func registerUpcoming(r chi.Router, d deps.Deps) {
	r.Get("/api/upcoming", handlers.Upcoming(d))
}

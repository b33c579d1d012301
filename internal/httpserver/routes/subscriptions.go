package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/handlers"
)

func init() { Register(registerSubscriptions) }

func registerSubscriptions(r chi.Router, d deps.Deps) {
	r.Route("/api/subscriptions", func(r chi.Router) {
		r.Get("/", handlers.ListSubscriptions(d))
		r.Post("/", handlers.CreateSubscription(d))
		r.Get("/{id}", handlers.GetSubscription(d))
		r.Put("/{id}", handlers.UpdateSubscription(d))
		r.Delete("/{id}", handlers.DeleteSubscription(d))
		r.Put("/{id}/active", handlers.SetActive(d))
		r.Get("/{id}/message", handlers.Message(d))
	})
}

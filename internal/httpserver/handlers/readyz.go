package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready         bool `json:"ready"`
	Subscriptions int  `json:"subscriptions"`
}

func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, readyzResponse{
			Ready:         true,
			Subscriptions: d.MemoryIndex.Count(),
		})
	}
}

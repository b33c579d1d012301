package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	Subscriptions *int   `json:"subscriptions,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the health of each component: the in-memory collection,
// Redis, and the optional AI assistant.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.MemoryIndex.Count()
		lastReload := "never"
		if t := d.MemoryIndex.LastReload(); !t.IsZero() {
			lastReload = t.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"collection": {
				OK:            count > 0,
				Subscriptions: &count,
				LastReload:    lastReload,
			},
			"redis":     checkRedis(d),
			"assistant": checkAssistant(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       overallMode(components),
			Components: components,
		})
	}
}

func overallMode(components map[string]componentStatus) string {
	if redis, exists := components["redis"]; exists && !redis.OK {
		// The app keeps serving from memory; only durability and
		// reminder dedupe are lost.
		return "degraded"
	}
	return "full"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "persistence-enabled",
	}
}

func checkAssistant(d deps.Deps) componentStatus {
	if d.Assistant == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "manual-entry-only",
		}
	}
	return componentStatus{
		OK:   true,
		Mode: "configured",
	}
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
)

// Reload triggers a manual reload of the seed file.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeError(w, http.StatusServiceUnavailable, "seeding is not configured")
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual seed reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("reload triggered\n"))
		default:
			d.Logger.Warn("seed reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("reload already in progress, please wait\n"))
		}
	}
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

type reloadResponse struct {
	Message string `json:"message"`
}

// Reload triggers an immediate seed import
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			writeJSON(w, http.StatusNotFound, reloadResponse{Message: "No seed file configured"}, d.Logger)
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual seed import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{Message: "Import triggered"}, d.Logger)
		default:
			d.Logger.Warn("seed import already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Message: "Import already pending, please wait"}, d.Logger)
		}
	}
}

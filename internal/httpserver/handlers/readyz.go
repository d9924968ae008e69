package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

const pingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports ready only while the entry store answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := d.Database.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{
				Ready: false,
				Error: "database unavailable",
			}, d.Logger)
			return
		}

		writeJSON(w, http.StatusOK, readyzResponse{Ready: true}, d.Logger)
	}
}

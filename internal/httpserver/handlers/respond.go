package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

// problem is an RFC 9457 problem body. message is kept for older clients.
type problem struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

// writeProblem answers with a generic body; the cause is logged by the caller.
func writeProblem(w http.ResponseWriter, status int, message string, log logger.Logger) {
	writeJSON(w, status, problem{
		Type:    "about:blank",
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	}, log)
}

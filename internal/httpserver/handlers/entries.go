package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

// createdAtLayout is ISO-8601 in UTC with milliseconds, e.g. 2024-05-01T12:00:00.000Z
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

type entryResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
}

func toEntryResponse(e domain.Entry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		URL:       e.URL,
		CreatedAt: e.CreatedAt.UTC().Format(createdAtLayout),
	}
}

// Entries lists every saved entry. Authentication happens in middleware.
func Entries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entries, err := d.Ingestor.List(r.Context())
		if err != nil {
			d.Logger.Error("failed to list entries", logger.Error(err))
			writeProblem(w, http.StatusInternalServerError, "Failed to fetch entries from database", d.Logger)
			return
		}

		resp := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toEntryResponse(e))
		}

		d.Logger.Debug("entries listed",
			logger.Int("count", len(resp)),
			logger.Duration("elapsed", time.Since(start)))

		writeJSON(w, http.StatusOK, resp, d.Logger)
	}
}

package handlers

import (
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/intake"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

// Share is the PWA share_target: GET /share?url=&text=&title=
func Share(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Ingestor.Ingest(r.Context(), shareQuery(r.URL.Query()))
		if err != nil {
			d.Logger.Error("failed to save shared url", logger.Error(err))
			writeProblem(w, http.StatusInternalServerError, "Failed to save entry to database", d.Logger)
			return
		}

		switch out.Status {
		case intake.StatusSaved:
			writePage(w, http.StatusOK, pageSaved.withURL(out.Entry.URL), d.Logger)
		case intake.StatusAlreadySaved:
			writePage(w, http.StatusOK, pageAlreadySaved.withURL(out.Entry.URL), d.Logger)
		default:
			writePage(w, http.StatusBadRequest, pageNoURL, d.Logger)
		}
	}
}

// shareQuery keeps absent parameters nil; present-but-empty ones become "".
func shareQuery(v url.Values) domain.ShareQuery {
	get := func(key string) *string {
		if !v.Has(key) {
			return nil
		}
		s := v.Get(key)
		return &s
	}
	return domain.ShareQuery{
		URL:   get("url"),
		Text:  get("text"),
		Title: get("title"),
	}
}

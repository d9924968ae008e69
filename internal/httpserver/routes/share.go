package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/mw"
)

func init() { Register(Public, registerShare) }

// /share is public; the rate limit is its only protection.
func registerShare(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.ShareRateBurst,
		RefillPerIPPerMin: d.ShareRatePerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})).Get("/share", handlers.Share(d))
}

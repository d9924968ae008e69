package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/mw"
)

func init() { Register(Ops, registerReload) }

// Triggers a seed import, so the Host header is checked on top of the CIDR guard.
func registerReload(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
}

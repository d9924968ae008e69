package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/handlers"
)

func init() { Register(Ops, registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/infra", handlers.Infra(d))
}

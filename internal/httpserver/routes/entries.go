package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/keeplater/internal/auth"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/handlers"
)

func init() { Register(Public, registerEntries) }

func registerEntries(r chi.Router, d deps.Deps) {
	r.With(auth.Middleware(d.Keyfunc, d.AuthOptions, d.Logger)).Get("/entries", handlers.Entries(d))
}

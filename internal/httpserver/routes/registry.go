package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/keeplater/internal/httpserver/deps"
	"github.com/MrSnakeDoc/keeplater/internal/httpserver/mw"
)

// Scope selects the middleware stack a route is mounted under.
type Scope int

const (
	// Public routes carry only their own middleware.
	Public Scope = iota
	// Ops routes are reachable only from AllowedCIDRS.
	Ops
)

type Registrar func(r chi.Router, d deps.Deps)

type route struct {
	scope Scope
	reg   Registrar
}

var registry []route

// Register adds a registrar; called from init() in each route file.
func Register(scope Scope, reg Registrar) {
	registry = append(registry, route{scope: scope, reg: reg})
}

// RegisterAll mounts every registered route. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	r.Group(func(pub chi.Router) {
		mount(pub, Public, d)
	})
	r.Group(func(ops chi.Router) {
		ops.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		mount(ops, Ops, d)
	})
}

func mount(r chi.Router, scope Scope, d deps.Deps) {
	for _, rt := range registry {
		if rt.scope == scope {
			rt.reg(r, d)
		}
	}
}

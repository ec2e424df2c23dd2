package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/mw"
)

func init() { Register("admin", registerAdmin) }

// Probes only check the caller IP; endpoints exposing internals or
// changing state also check the Host header.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))

		r.Get("/healthz", handlers.Healthz(d))
		r.Get("/readyz", handlers.Readyz(d))
		if d.Metrics != nil {
			r.Method("GET", "/metrics", handlers.Metrics(d))
		}

		r.Group(func(r chi.Router) {
			r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

			r.Get("/infra", handlers.Infra(d))
			r.Post("/reload", handlers.Reload(d))
		})
	})
}

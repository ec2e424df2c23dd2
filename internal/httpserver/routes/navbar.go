package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/mw"
	"github.com/MrSnakeDoc/navbar/internal/metrics"
)

func init() { Register("navbar", registerNavbar) }

func registerNavbar(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.RateBurst,
		RefillPerMin: d.RateRefillMin,
		MaxEntries:   10000,
		IdleTTL:      15 * time.Minute,
		TrustProxy:   d.TrustProxy,
		BySession:    true,
		OnLimited: func(r *http.Request) {
			if d.Metrics != nil {
				d.Metrics.Interactions.Increment(actionFromPath(r.URL.Path), metrics.ResultLimited)
			}
		},
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Session(d.SecureCookie, d.Logger))

		r.Get("/", handlers.Page(d))
		r.Get("/navbar", handlers.Fragment(d))
		r.Get("/navbar/state", handlers.State(d))

		r.Group(func(r chi.Router) {
			r.Use(limit)

			r.Post("/navbar/enter/{index}", handlers.Interact(d, domain.ActionEnter))
			r.Post("/navbar/leave/{index}", handlers.Interact(d, domain.ActionLeave))
			r.Post("/navbar/toggle", handlers.Interact(d, domain.ActionToggle))
		})
	})
}

// actionFromPath maps "/navbar/enter/2" to "enter".
func actionFromPath(p string) string {
	rest := strings.TrimPrefix(p, "/navbar/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if a, err := domain.ParseAction(rest); err == nil {
		return string(a)
	}
	return "unknown"
}

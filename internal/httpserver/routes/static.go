package routes

import (
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/handlers"
)

func init() { Register("static", registerStatic) }

func registerStatic(r chi.Router, d deps.Deps) {
	if d.StaticDir == "" {
		return
	}
	r.Method("GET", "/static/*", handlers.Static(d.StaticDir))

	// The built-in brand links its logo at the site root.
	logo := domain.DefaultBrand().LogoSrc
	if !strings.HasPrefix(logo, "/static/") {
		r.Method("GET", logo, handlers.StaticFile(d.StaticDir, path.Base(logo)))
	}
}

package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/logger"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

type group struct {
	name string
	reg  Registrar
}

var groups []group

// Register adds a named route group. Files call it from init, so groups are
// mounted in file-name order.
func Register(name string, reg Registrar) {
	groups = append(groups, group{name: name, reg: reg})
}

// Groups lists the registered group names in mount order.
func Groups() []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.name
	}
	return names
}

// RegisterAll mounts every group on r. Called once per router.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		g.reg(r, d)
		d.Logger.Debug("routes mounted", logger.String("group", g.name))
	}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
)

type healthzResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Version        string  `json:"version,omitempty"`
	Commit         string  `json:"commit,omitempty"`
	BuildDate      string  `json:"build_date,omitempty"`
	GoVersion      string  `json:"go_version,omitempty"`
	CatalogVersion string  `json:"catalog_version,omitempty"`
}

// Healthz is liveness only: it answers as long as the process serves HTTP.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	base := healthzResponse{
		Status:    "ok",
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := base
		resp.UptimeSeconds = now().Sub(d.StartTime).Seconds()
		if d.Catalog != nil {
			resp.CatalogVersion = d.Catalog.Version()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/config"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/redis"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	EntriesLoaded  *int   `json:"entries_loaded,omitempty"`
	Version        string `json:"version,omitempty"`
	Source         string `json:"source,omitempty"`
	LastReload     string `json:"last_reload,omitempty"`
	Backend        string `json:"backend,omitempty"`
	ActiveSessions *int   `json:"active_sessions,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.Catalog.Count()
		lastReload := d.Catalog.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		sessions := componentStatus{OK: true, Backend: d.SessionBackend}
		if d.SessionCounter != nil {
			n := d.SessionCounter()
			sessions.ActiveSessions = &n
		}

		components := map[string]componentStatus{
			"catalog": {
				OK:            entries > 0,
				EntriesLoaded: &entries,
				Version:       d.Catalog.Version(),
				Source:        d.Catalog.Source(),
				LastReload:    lastReloadStr,
			},
			"sessions": sessions,
		}
		if d.SessionBackend == config.BackendRedis {
			components["redis"] = checkRedis(r.Context(), d)
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func determineStatus(components map[string]componentStatus) string {
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "critical" // nothing to render
	}

	// Redis down = interactions fail, page still renders the initial state
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}

	return "operational"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "interactions-disabled",
			Error:  "client not initialized",
		}
	}

	if err := redis.Healthy(ctx, d.RedisClient, 2*time.Second); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "interactions-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "none",
	}
}

package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/navbar/internal/config"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz reports whether the navbar can be rendered: a non-empty catalog is
// loaded and, with the Redis backend, Redis answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reason := notReady(r, d); reason != "" {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: reason})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}

func notReady(r *http.Request, d deps.Deps) string {
	if d.Catalog == nil || d.Catalog.Count() == 0 {
		return "catalog not loaded"
	}
	if d.SessionBackend == config.BackendRedis && !checkRedis(r.Context(), d).OK {
		return "redis unavailable"
	}
	return ""
}

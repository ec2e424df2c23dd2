package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON sends v with the given status. Probe and state responses are
// never cached.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

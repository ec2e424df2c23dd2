package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/mw"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/metrics"
	"github.com/MrSnakeDoc/navbar/internal/render"
	"github.com/MrSnakeDoc/navbar/internal/session"
)

type stateResponse struct {
	ActiveDropdown *int   `json:"active_dropdown"`
	MobileMenuOpen bool   `json:"mobile_menu_open"`
	CatalogVersion string `json:"catalog_version"`
}

// Page renders the full document for the caller's session.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, _ := d.Catalog.Snapshot()
		st := loadState(r.Context(), d, cat.Len())

		writeHTML(w, d, http.StatusOK, func(buf *bytes.Buffer) error {
			return d.Renderer.Page(buf, render.Project(cat, st))
		})
	}
}

// Fragment renders the swappable <nav> element.
func Fragment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, version := d.Catalog.Snapshot()
		st := loadState(r.Context(), d, cat.Len())

		etag := fragmentETag(version, st)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "private, no-cache")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		writeHTML(w, d, http.StatusOK, func(buf *bytes.Buffer) error {
			return d.Renderer.Navbar(buf, render.Project(cat, st))
		})
	}
}

// State returns the session state as JSON.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, version := d.Catalog.Snapshot()
		st := loadState(r.Context(), d, cat.Len())

		resp := stateResponse{
			MobileMenuOpen: st.MobileMenuOpen,
			CatalogVersion: version,
		}
		if st.HasActiveDropdown() {
			active := st.ActiveDropdown
			resp.ActiveDropdown = &active
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// Interact applies one navbar action to the caller's session. htmx callers
// get the updated fragment; plain form posts are redirected back.
func Interact(d deps.Deps, action domain.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := mw.SessionID(ctx)
		cat, _ := d.Catalog.Snapshot()

		idx := domain.NoDropdown
		if action != domain.ActionToggle {
			n, err := strconv.Atoi(chi.URLParam(r, "index"))
			if err != nil {
				d.Metrics.Interactions.Increment(string(action), metrics.ResultRejected)
				http.Error(w, "invalid index", http.StatusBadRequest)
				return
			}
			idx = n
		}

		prev, next, err := d.Sessions.Update(ctx, id, func(s domain.State) (domain.State, error) {
			c := domain.RestoreController(cat.Len(), s)
			if err := c.Apply(action, idx); err != nil {
				return s, err
			}
			return c.State(), nil
		})
		switch {
		case errors.Is(err, domain.ErrIndexOutOfRange):
			d.Metrics.Interactions.Increment(string(action), metrics.ResultRejected)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			d.Metrics.Interactions.Increment(string(action), metrics.ResultError)
			d.Logger.Warn("failed to update navbar session",
				logger.String("action", string(action)),
				logger.Error(err))
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}
		d.Metrics.Interactions.Increment(string(action), metrics.ResultOK)

		d.Logger.Debug("navbar interaction",
			logger.String("action", string(action)),
			logger.Int("index", idx),
			logger.Int("active_dropdown", next.ActiveDropdown),
			logger.Bool("mobile_menu_open", next.MobileMenuOpen))

		if r.Header.Get("HX-Request") != "true" {
			http.Redirect(w, r, backTarget(r), http.StatusSeeOther)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		writeHTML(w, d, http.StatusOK, func(buf *bytes.Buffer) error {
			return d.Renderer.Navbar(buf, render.Transition(cat, prev, next))
		})
	}
}

// loadState falls back to the initial state when the store cannot be read,
// so the page still renders.
func loadState(ctx context.Context, d deps.Deps, size int) domain.State {
	st, err := session.Load(ctx, d.Sessions, mw.SessionID(ctx))
	if err != nil {
		d.Logger.Warn("failed to load navbar session, rendering initial state",
			logger.Error(err))
		return domain.InitialState()
	}
	return domain.RestoreController(size, st).State()
}

func writeHTML(w http.ResponseWriter, d deps.Deps, status int, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		d.Logger.Error("failed to render navbar", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}

func fragmentETag(version string, st domain.State) string {
	return fmt.Sprintf(`"%s-%d-%t"`, version, st.ActiveDropdown, st.MobileMenuOpen)
}

// backTarget returns the same-host path of the Referer, or "/".
func backTarget(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

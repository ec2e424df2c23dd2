package handlers

import (
	"net/http"
)

const staticCache = "public, max-age=3600"

// Static serves dir under /static/. Directory listings are disabled.
func Static(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", staticCache)
		fs.ServeHTTP(w, r)
	}))
}

// StaticFile serves a single file from dir, used for assets the page links
// at the site root.
func StaticFile(dir, name string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", staticCache)
		r2 := r.Clone(r.Context())
		r2.URL.Path = "/" + name
		fs.ServeHTTP(w, r2)
	})
}

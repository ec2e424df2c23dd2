// Package httpserver serves the navbar page, its htmx fragments and the
// admin probes.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/navbar/internal/config"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/mw"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/routes"
	"github.com/MrSnakeDoc/navbar/internal/logger"
)

// requestTimeout bounds every handler; session updates are the slowest path.
const requestTimeout = 2 * time.Second

// Server owns the listening http.Server.
type Server struct {
	http *http.Server
	log  logger.Logger
}

// New wires the router into an http.Server listening on cfg.ListenPort.
func New(cfg *config.Config, log logger.Logger, d deps.Deps) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.ListenPort,
			Handler:           NewRouter(log, d),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		log: log,
	}
}

// NewRouter returns the full handler: global middlewares then every
// registered route group.
func NewRouter(log logger.Logger, d deps.Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.GetHead,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
		mw.AccessLog(log),
		mw.CORS(d.AllowedOrigins...),
	)

	routes.RegisterAll(r, d)
	return r
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", logger.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains open connections until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}

package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/session"
)

// quietPaths are probed by orchestrators every few seconds.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// AccessLog writes one structured line per request. Server errors log at
// error level, client errors at warn, probes at debug.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_ip", r.RemoteAddr),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			// Session runs further down the chain; first visits log without one.
			if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
				fields = append(fields, logger.String("session", c.Value))
			}
			if r.Header.Get("HX-Request") == "true" {
				fields = append(fields, logger.Bool("htmx", true))
			}

			switch {
			case status >= 500:
				log.Error("http_request", fields...)
			case status >= 400:
				log.Warn("http_request", fields...)
			case quietPaths[r.URL.Path]:
				log.Debug("http_request", fields...)
			default:
				log.Info("http_request", append(fields, logger.String("user_agent", r.UserAgent()))...)
			}
		})
	}
}

package mw

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/session"
)

// SessionCookie is the cookie carrying the navbar session id.
const SessionCookie = "navbar_sid"

type sessionKey struct{}

// Session makes sure every request carries a valid session id, issuing a
// new cookie when the browser sent none or a malformed one.
func Session(secure bool, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
				id = c.Value
			}

			if id == "" {
				id = session.NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				log.Debug("issued navbar session",
					logger.String("session_id", id))
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// WithSessionID stores id in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session id set by Session, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

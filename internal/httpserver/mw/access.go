package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// AllowOnlyCIDRS restricts a route to callers inside the allow-list. An empty
// list disables the check.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}
	log.Debug("admin cidr guard enabled",
		logger.Int("rules", m.Len()),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				deny(w, r, log, logger.String("client_ip", ip))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost restricts a route to the listed Host headers. Patterns may be
// exact or "*.example.com". An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}
	patterns := make([]string, len(allowedHosts))
	for i, h := range allowedHosts {
		patterns[i] = strings.ToLower(h)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))
			for _, p := range patterns {
				if matchHost(host, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, r, log, logger.String("host", host))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, log logger.Logger, why logger.Field) {
	log.Debug("admin request rejected",
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		why)
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// "*.example.com" matches any subdomain but not the apex.
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix) && len(host) > len(suffix)
	}
	return false
}

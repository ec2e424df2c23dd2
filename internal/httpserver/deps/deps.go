package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navbar/internal/index"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/metrics"
	"github.com/MrSnakeDoc/navbar/internal/render"
	"github.com/MrSnakeDoc/navbar/internal/session"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time    // for testing, defaults to time.Now
	AllowedHosts   []string            // Host headers allowed to access admin endpoints
	AllowedCIDRS   []string            // IPs allowed to access healthz/readyz/infra/metrics/reload
	AllowedOrigins []string            // Origins allowed to fetch the navbar cross-site (CORS)
	TrustProxy     bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RedisClient    *redis.Client       // Redis client connection (nil with the memory backend)
	Catalog        *index.CatalogIndex // Active navigation catalog
	Sessions       session.Store       // Per-session navbar state
	SessionBackend string              // "memory" | "redis", reported by /infra
	SessionCounter func() int          // live session count, nil if unknown
	SecureCookie   bool                // mark the session cookie Secure
	Renderer       *render.HTML        // HTML templates
	Metrics        *metrics.Metrics    // Prometheus counters
	StaticDir      string              // optional directory served under /static/
	RateBurst      int                 // interaction endpoints: bucket size per client IP
	RateRefillMin  int                 // interaction endpoints: tokens refilled per minute
	ReloadTrigger  chan struct{}       // Channel to trigger manual catalog reload
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SiteTitle      string        // <title> of the rendered page
	CatalogFile    string        // path to the navbar YAML file (optional, empty = built-in catalog)
	ReloadInterval time.Duration // interval to reload the catalog file (default: 1h)
	StaticDir      string        // optional directory served under /static/ (logo, assets)
	ScriptSrc      string        // htmx bundle URL, empty = no script tag

	SessionBackend string        // "memory" | "redis"
	SessionTTL     time.Duration // idle time before a navbar session is forgotten
	GCInterval     time.Duration // interval to sweep idle in-memory sessions

	// Redis (only read when SessionBackend == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict admin endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict admin endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	AllowedOrigins []string // optional, origins allowed to embed the navbar fragment (CORS)
	SecureCookie   bool     // true => session cookie only sent over HTTPS

	RateBurst     int // interaction endpoints: bucket size per client IP
	RateRefillMin int // interaction endpoints: tokens refilled per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NAVBAR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NAVBAR_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("NAVBAR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NAVBAR_PRETTY_LOG", true),

		// Catalog & page
		SiteTitle:      getenv("NAVBAR_SITE_TITLE", "therahulkumar.dev"),
		CatalogFile:    getenv("NAVBAR_CATALOG_FILE", ""), // Optional, empty = built-in catalog
		ReloadInterval: mustDuration("NAVBAR_RELOAD_INTERVAL", time.Hour),
		StaticDir:      getenv("NAVBAR_STATIC_DIR", ""),
		ScriptSrc:      getenv("NAVBAR_SCRIPT_SRC", "https://unpkg.com/htmx.org@1.9.12"),

		// Sessions
		SessionBackend: strings.ToLower(getenv("NAVBAR_SESSION_BACKEND", BackendMemory)),
		SessionTTL:     mustDuration("NAVBAR_SESSION_TTL", 24*time.Hour),
		GCInterval:     mustDuration("NAVBAR_GC_INTERVAL", 10*time.Minute),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("NAVBAR_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("NAVBAR_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("NAVBAR_TRUST_PROXY", true),

		AllowedOrigins: splitAndTrim(getenv("NAVBAR_ALLOWED_ORIGINS", "")),
		SecureCookie:   mustBool("NAVBAR_SECURE_COOKIE", false),

		RateBurst:     getenvInt("NAVBAR_RATE_BURST", 60),
		RateRefillMin: getenvInt("NAVBAR_RATE_PER_MIN", 120),
	}

	switch cfg.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: NAVBAR_SESSION_BACKEND must be %q or %q, got %q",
			BackendMemory, BackendRedis, cfg.SessionBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("NAVBAR_REDIS_ADDR")
	cfg.RedisUser = getenv("NAVBAR_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("NAVBAR_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("NAVBAR_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("NAVBAR_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: NAVBAR_REDIS_PASSWORD is required when NAVBAR_REDIS_PASSWORD_REQUIRED=true")
	}
}

// UsesRedis reports whether sessions (and catalog publishing) go through Redis.
func (c *Config) UsesRedis() bool {
	return c.SessionBackend == BackendRedis
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/session"
	"github.com/MrSnakeDoc/navbar/internal/utils"
)

// RateLimitConfig sizes a token bucket per client. Clients are keyed by
// session cookie when BySession is set and the cookie is valid, otherwise by IP.
type RateLimitConfig struct {
	Burst         int
	RefillPerMin  int
	MaxEntries    int           // buckets kept before an early sweep
	SweepInterval time.Duration // default 1m
	IdleTTL       time.Duration // default 15m
	TrustProxy    bool
	BySession     bool

	// OnLimited is called for every rejected request.
	OnLimited func(r *http.Request)
}

type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	updated  time.Time
	lastSeen time.Time
}

// take refills the bucket for the time elapsed and spends one token.
// wait is how long until a token is available when the bucket is empty.
func (b *tokenBucket) take(now time.Time, capacity, perSec float64) (ok bool, left int, wait time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.updated).Seconds(); dt > 0 {
		b.tokens = math.Min(capacity, b.tokens+dt*perSec)
		b.updated = now
	}
	if b.tokens < 1 {
		return false, 0, time.Duration((1 - b.tokens) / perSec * float64(time.Second))
	}
	b.tokens--
	b.lastSeen = now
	return true, int(b.tokens), 0
}

type limiter struct {
	cfg      RateLimitConfig
	capacity float64
	perSec   float64

	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.RefillPerMin < 1 {
		cfg.RefillPerMin = 1
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	return &limiter{
		cfg:       cfg,
		capacity:  float64(cfg.Burst),
		perSec:    float64(cfg.RefillPerMin) / 60,
		buckets:   make(map[string]*tokenBucket),
		lastSweep: time.Now(),
	}
}

func (l *limiter) bucket(key string, now time.Time) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.buckets) >= l.cfg.MaxEntries
	if full || now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.capacity, updated: now, lastSeen: now}
		l.buckets[key] = b
	}
	return b
}

// sweep drops idle buckets; l.mu must be held.
func (l *limiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		b.mu.Lock()
		idle := now.Sub(b.lastSeen) > l.cfg.IdleTTL
		b.mu.Unlock()
		if idle {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

// allow reports whether key may proceed, the tokens left and the whole
// seconds to wait otherwise.
func (l *limiter) allow(key string, now time.Time) (bool, int, int) {
	ok, left, wait := l.bucket(key, now).take(now, l.capacity, l.perSec)
	if ok {
		return true, left, 0
	}
	return false, 0, max(1, int(math.Ceil(wait.Seconds())))
}

func (l *limiter) key(r *http.Request) string {
	if l.cfg.BySession {
		if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
			return "sid:" + c.Value
		}
	}
	return "ip:" + utils.ClientIP(r, l.cfg.TrustProxy)
}

// RateLimit answers 429 with Retry-After once a client runs out of tokens.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, left, retry := l.allow(l.key(r), time.Now())
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !ok {
				if l.cfg.OnLimited != nil {
					l.cfg.OnLimited(r)
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

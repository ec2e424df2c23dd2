package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/session"
)

func TestSessionIssuesCookie(t *testing.T) {
	var seen string
	h := Session(true, logger.New("error", false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie {
		t.Fatalf("cookies = %v, want one %s", cookies, SessionCookie)
	}
	c := cookies[0]
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie flags HttpOnly=%v Secure=%v SameSite=%v", c.HttpOnly, c.Secure, c.SameSite)
	}
	if seen != c.Value {
		t.Errorf("context id %q != cookie %q", seen, c.Value)
	}
}

func TestSessionKeepsValidCookie(t *testing.T) {
	id := session.NewID()
	var seen string
	h := Session(false, logger.New("error", false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != id {
		t.Errorf("SessionID() = %q, want %q", seen, id)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("valid session was re-issued")
	}
}

func TestSessionReplacesMalformedCookie(t *testing.T) {
	var seen string
	h := Session(false, logger.New("error", false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "../../admin"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "../../admin" || !session.ValidID(seen) {
		t.Errorf("SessionID() = %q, want a fresh uuid", seen)
	}
}

func TestCORSWithoutOriginsIsSameOriginOnly(t *testing.T) {
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/navbar", nil)
	req.Header.Set("Origin", "https://other.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("origin allowed with an empty allow-list")
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Error("response does not vary on Origin")
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"nav.example.com", "nav.example.com", true},
		{"nav.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"nav.example.org", "*.example.com", false},
		{".example.com", "*.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerMin: 1})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/navbar/toggle", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestLimiterRefill(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerMin: 60})
	now := time.Now()

	if ok, _, _ := l.allow("ip", now); !ok {
		t.Fatal("first request rejected")
	}
	if ok, _, retry := l.allow("ip", now); ok || retry != 1 {
		t.Errorf("second request ok=%v retry=%d, want rejected with retry 1", ok, retry)
	}
	if ok, _, _ := l.allow("ip", now.Add(time.Second)); !ok {
		t.Error("token not refilled after one second")
	}
}

func TestRateLimitBySession(t *testing.T) {
	limited := 0
	h := RateLimit(RateLimitConfig{
		Burst:        1,
		RefillPerMin: 1,
		BySession:    true,
		OnLimited:    func(*http.Request) { limited++ },
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(sid string) int {
		req := httptest.NewRequest(http.MethodPost, "/navbar/toggle", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		if sid != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	a, b := session.NewID(), session.NewID()
	if send(a) != http.StatusOK || send(b) != http.StatusOK {
		t.Fatal("two sessions behind one IP share a bucket")
	}
	if code := send(a); code != http.StatusTooManyRequests {
		t.Errorf("second request for session a = %d, want 429", code)
	}
	if limited != 1 {
		t.Errorf("OnLimited called %d times, want 1", limited)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	log := logger.Nop()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name    string
		allowed []string
		remote  string
		xff     string
		trust   bool
		want    int
	}{
		{"empty list passes", nil, "198.51.100.1:1", "", false, http.StatusOK},
		{"inside range", []string{"10.0.0.0/8"}, "10.2.3.4:1", "", false, http.StatusOK},
		{"outside range", []string{"10.0.0.0/8"}, "198.51.100.1:1", "", false, http.StatusForbidden},
		{"spoofed header untrusted", []string{"10.0.0.0/8"}, "198.51.100.1:1", "10.0.0.1", false, http.StatusForbidden},
		{"forwarded header trusted", []string{"10.0.0.0/8"}, "127.0.0.1:1", "10.0.0.1", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/infra", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := httptest.NewRecorder()
			AllowOnlyCIDRS(tt.allowed, tt.trust, log)(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestEnforceHostIgnoresPortAndCase(t *testing.T) {
	h := EnforceHost([]string{"Nav.Example.com"}, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for host, want := range map[string]int{
		"nav.example.com:8080": http.StatusOK,
		"NAV.EXAMPLE.COM":      http.StatusOK,
		"evil.example.com":     http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/infra", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("Host %q: status = %d, want %d", host, rec.Code, want)
		}
	}
}

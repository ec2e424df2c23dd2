package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/navbar/internal/domain"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navbar/internal/httpserver/mw"
	"github.com/MrSnakeDoc/navbar/internal/index"
	"github.com/MrSnakeDoc/navbar/internal/logger"
	"github.com/MrSnakeDoc/navbar/internal/metrics"
	"github.com/MrSnakeDoc/navbar/internal/render"
	"github.com/MrSnakeDoc/navbar/internal/session"
)

func newTestDeps(t *testing.T) deps.Deps {
	t.Helper()
	h, err := render.NewHTML(render.HTMLOptions{})
	if err != nil {
		t.Fatalf("NewHTML() error = %v", err)
	}
	store := session.NewMemoryStore()
	return deps.Deps{
		Logger:         logger.New("error", false),
		StartTime:      time.Now(),
		TimeNow:        time.Now,
		Version:        "test",
		Catalog:        index.NewCatalogIndex(domain.DefaultCatalog(), "builtin"),
		Sessions:       store,
		SessionBackend: "memory",
		SessionCounter: store.Count,
		Renderer:       h,
		Metrics:        metrics.New(),
		RateBurst:      1000,
		RateRefillMin:  1000,
		ReloadTrigger:  make(chan struct{}, 1),
	}
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &client{
		t:    t,
		base: srv.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *client) do(method, path string, header map[string]string) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, nil)
	if err != nil {
		c.t.Fatal(err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatal(err)
	}
	return resp, string(body)
}

func (c *client) htmx(path string) (*http.Response, string) {
	return c.do(http.MethodPost, path, map[string]string{"HX-Request": "true"})
}

type stateJSON struct {
	ActiveDropdown *int   `json:"active_dropdown"`
	MobileMenuOpen bool   `json:"mobile_menu_open"`
	CatalogVersion string `json:"catalog_version"`
}

func (c *client) state() stateJSON {
	c.t.Helper()
	resp, body := c.do(http.MethodGet, "/navbar/state", nil)
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("GET /navbar/state = %d", resp.StatusCode)
	}
	var st stateJSON
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		c.t.Fatalf("decode state: %v (%s)", err, body)
	}
	return st
}

func newTestServer(t *testing.T, d deps.Deps) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(d.Logger, d))
	t.Cleanup(srv.Close)
	return srv
}

func TestPageIssuesSessionCookie(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	c := newClient(t, srv)

	resp, body := c.do(http.MethodGet, "/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "<!DOCTYPE html>") || !strings.Contains(body, `id="navbar"`) {
		t.Error("page does not contain the navbar document")
	}

	var sid string
	for _, ck := range resp.Cookies() {
		if ck.Name == mw.SessionCookie {
			sid = ck.Value
		}
	}
	if !session.ValidID(sid) {
		t.Fatalf("session cookie = %q, want a uuid", sid)
	}

	// The cookie is reused on the next request.
	resp, _ = c.do(http.MethodGet, "/navbar", nil)
	for _, ck := range resp.Cookies() {
		if ck.Name == mw.SessionCookie {
			t.Error("second request was issued a new session")
		}
	}
}

func TestPortfolioScenario(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	c := newClient(t, srv)

	resp, body := c.htmx("/navbar/enter/0")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("enter = %d: %s", resp.StatusCode, body)
	}
	web, mobile := strings.Index(body, "Web Projects"), strings.Index(body, "Mobile Projects")
	if web < 0 || mobile < web {
		t.Errorf("Portfolio panel missing or misordered (web=%d mobile=%d)", web, mobile)
	}
	if st := c.state(); st.ActiveDropdown == nil || *st.ActiveDropdown != 0 {
		t.Fatalf("active_dropdown = %v, want 0", st.ActiveDropdown)
	}

	// Leaving an entry that is not the open one keeps the panel.
	if resp, _ := c.htmx("/navbar/leave/2"); resp.StatusCode != http.StatusOK {
		t.Fatalf("leave(2) = %d", resp.StatusCode)
	}
	if st := c.state(); st.ActiveDropdown == nil || *st.ActiveDropdown != 0 {
		t.Errorf("stale leave closed the open dropdown: %v", st.ActiveDropdown)
	}

	resp, body = c.htmx("/navbar/leave/0")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leave(0) = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "anim-dropdown-exit") {
		t.Error("closing fragment does not play the exit animation")
	}
	if st := c.state(); st.ActiveDropdown != nil {
		t.Errorf("active_dropdown = %d after leave, want null", *st.ActiveDropdown)
	}
}

func TestMobileScenarioWithoutScript(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	c := newClient(t, srv)

	resp, _ := c.do(http.MethodPost, "/navbar/toggle", map[string]string{"Referer": srv.URL + "/blog?x=1"})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("toggle = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/blog?x=1" {
		t.Errorf("Location = %q, want /blog?x=1", loc)
	}
	if !c.state().MobileMenuOpen {
		t.Fatal("mobile menu closed after one toggle")
	}

	_, body := c.do(http.MethodGet, "/navbar", nil)
	if !strings.Contains(body, string(render.GlyphClose)) || !strings.Contains(body, "Premium Tools") {
		t.Error("open mobile panel not rendered")
	}

	resp, _ = c.do(http.MethodPost, "/navbar/toggle", map[string]string{"Referer": "https://elsewhere.example/phish"})
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q for foreign referer, want /", loc)
	}
	if c.state().MobileMenuOpen {
		t.Error("two toggles did not restore the closed state")
	}
}

func TestInteractRejectsBadIndex(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	c := newClient(t, srv)
	c.htmx("/navbar/enter/1")

	for _, path := range []string{"/navbar/enter/4", "/navbar/enter/-1", "/navbar/leave/99", "/navbar/enter/abc"} {
		if resp, _ := c.htmx(path); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s = %d, want 400", path, resp.StatusCode)
		}
	}
	if st := c.state(); st.ActiveDropdown == nil || *st.ActiveDropdown != 1 {
		t.Errorf("rejected requests changed the state: %v", st.ActiveDropdown)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	a, b := newClient(t, srv), newClient(t, srv)

	a.htmx("/navbar/enter/3")
	b.htmx("/navbar/toggle")

	if st := a.state(); st.MobileMenuOpen || st.ActiveDropdown == nil || *st.ActiveDropdown != 3 {
		t.Errorf("client a state = %+v", st)
	}
	if st := b.state(); !st.MobileMenuOpen || st.ActiveDropdown != nil {
		t.Errorf("client b state = %+v", st)
	}
}

func TestFragmentETag(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	c := newClient(t, srv)

	resp, _ := c.do(http.MethodGet, "/navbar", nil)
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("fragment has no ETag")
	}

	resp, _ = c.do(http.MethodGet, "/navbar", map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("conditional GET = %d, want 304", resp.StatusCode)
	}

	c.htmx("/navbar/toggle")
	resp, _ = c.do(http.MethodGet, "/navbar", map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("conditional GET after toggle = %d, want 200", resp.StatusCode)
	}
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (domain.State, error) {
	return domain.State{}, errors.New("connection refused")
}

func (brokenStore) Update(context.Context, string, session.UpdateFunc) (domain.State, domain.State, error) {
	return domain.State{}, domain.State{}, errors.New("connection refused")
}

func (brokenStore) Delete(context.Context, string) error { return nil }

func TestStoreFailure(t *testing.T) {
	d := newTestDeps(t)
	d.Sessions = brokenStore{}
	srv := newTestServer(t, d)
	c := newClient(t, srv)

	if resp, _ := c.htmx("/navbar/toggle"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("toggle with broken store = %d, want 503", resp.StatusCode)
	}

	resp, body := c.do(http.MethodGet, "/", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, string(render.GlyphHamburger)) {
		t.Errorf("page with broken store = %d, want initial state rendered", resp.StatusCode)
	}
}

func TestReloadEndpoint(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	c := newClient(t, srv)

	if resp, _ := c.do(http.MethodPost, "/reload", nil); resp.StatusCode != http.StatusAccepted {
		t.Errorf("first reload = %d, want 202", resp.StatusCode)
	}
	// Nobody drains the trigger in this test.
	if resp, _ := c.do(http.MethodPost, "/reload", nil); resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("second reload = %d, want 429", resp.StatusCode)
	}
}

func TestAdminEndpoints(t *testing.T) {
	srv := newTestServer(t, newTestDeps(t))
	c := newClient(t, srv)
	c.htmx("/navbar/enter/0")

	resp, body := c.do(http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"status":"ok"`) || !strings.Contains(body, `"catalog_version"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}

	resp, body = c.do(http.MethodGet, "/readyz", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ready":true`) {
		t.Errorf("readyz = %d %s", resp.StatusCode, body)
	}

	resp, body = c.do(http.MethodGet, "/infra", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("infra = %d", resp.StatusCode)
	}
	var infra struct {
		Status     string `json:"status"`
		Components map[string]struct {
			OK             bool `json:"ok"`
			EntriesLoaded  *int `json:"entries_loaded"`
			ActiveSessions *int `json:"active_sessions"`
		} `json:"components"`
	}
	if err := json.Unmarshal([]byte(body), &infra); err != nil {
		t.Fatal(err)
	}
	if infra.Status != "operational" {
		t.Errorf("infra status = %q", infra.Status)
	}
	if n := infra.Components["catalog"].EntriesLoaded; n == nil || *n != 4 {
		t.Errorf("entries_loaded = %v, want 4", n)
	}
	if n := infra.Components["sessions"].ActiveSessions; n == nil || *n != 1 {
		t.Errorf("active_sessions = %v, want 1", n)
	}

	_, body = c.do(http.MethodGet, "/metrics", nil)
	if !strings.Contains(body, `navbar_interactions_total{action="enter",result="ok"} 1`) {
		t.Error("metrics missing the enter interaction")
	}
}

func TestReadyzWithoutCatalog(t *testing.T) {
	d := newTestDeps(t)
	d.Catalog = index.NewCatalogIndex(domain.Catalog{}, "test")
	srv := newTestServer(t, d)

	resp, _ := newClient(t, srv).do(http.MethodGet, "/readyz", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("readyz = %d, want 503", resp.StatusCode)
	}
}

func TestAdminEndpointsRestrictedByCIDR(t *testing.T) {
	d := newTestDeps(t)
	d.AllowedCIDRS = []string{"10.0.0.0/8"}
	d.TrustProxy = false
	srv := newTestServer(t, d)
	c := newClient(t, srv)

	for _, path := range []string{"/healthz", "/readyz", "/infra", "/metrics"} {
		if resp, _ := c.do(http.MethodGet, path, nil); resp.StatusCode != http.StatusForbidden {
			t.Errorf("GET %s from loopback = %d, want 403", path, resp.StatusCode)
		}
	}
	// The navbar itself stays public.
	if resp, _ := c.do(http.MethodGet, "/", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("GET / = %d, want 200", resp.StatusCode)
	}
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "profile.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := newTestDeps(t)
	d.StaticDir = dir
	srv := newTestServer(t, d)
	c := newClient(t, srv)

	if resp, body := c.do(http.MethodGet, "/static/profile.png", nil); resp.StatusCode != http.StatusOK || body != "png" {
		t.Errorf("GET /static/profile.png = %d %q", resp.StatusCode, body)
	}
	if resp, _ := c.do(http.MethodGet, "/static/", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("directory listing = %d, want 404", resp.StatusCode)
	}

	// The logo the page links must resolve.
	_, page := c.do(http.MethodGet, "/", nil)
	const marker = `<img src="`
	start := strings.Index(page, marker)
	if start < 0 {
		t.Fatal("page has no logo")
	}
	src := page[start+len(marker):]
	src = src[:strings.IndexByte(src, '"')]
	if resp, body := c.do(http.MethodGet, src, nil); resp.StatusCode != http.StatusOK || body != "png" {
		t.Errorf("GET %s = %d %q, want the logo", src, resp.StatusCode, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	d := newTestDeps(t)
	d.AllowedOrigins = []string{"https://blog.example"}
	srv := newTestServer(t, d)
	c := newClient(t, srv)

	resp, _ := c.do(http.MethodOptions, "/navbar/toggle", map[string]string{
		"Origin":                        "https://blog.example",
		"Access-Control-Request-Method": "POST",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://blog.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Headers"), "HX-Request") {
		t.Error("preflight does not allow htmx headers")
	}

	resp, _ = c.do(http.MethodGet, "/navbar", map[string]string{"Origin": "https://evil.example"})
	if resp.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Error("unlisted origin was allowed")
	}
}

func TestInteractionsRateLimitedPerSession(t *testing.T) {
	d := newTestDeps(t)
	d.RateBurst = 1
	d.RateRefillMin = 1
	srv := newTestServer(t, d)

	c := newClient(t, srv)
	c.do(http.MethodGet, "/", nil)

	if resp, _ := c.htmx("/navbar/toggle"); resp.StatusCode != http.StatusOK {
		t.Fatalf("first toggle = %d", resp.StatusCode)
	}
	resp, _ := c.htmx("/navbar/toggle")
	if resp.StatusCode != http.StatusTooManyRequests || resp.Header.Get("Retry-After") == "" {
		t.Errorf("second toggle = %d Retry-After=%q, want 429", resp.StatusCode, resp.Header.Get("Retry-After"))
	}
	if !c.state().MobileMenuOpen {
		t.Error("limited toggle changed the state")
	}

	// Another browser behind the same address has its own bucket.
	other := newClient(t, srv)
	other.do(http.MethodGet, "/", nil)
	if resp, _ := other.htmx("/navbar/toggle"); resp.StatusCode != http.StatusOK {
		t.Errorf("other session toggle = %d", resp.StatusCode)
	}

	_, body := c.do(http.MethodGet, "/metrics", nil)
	if !strings.Contains(body, `navbar_interactions_total{action="toggle",result="limited"} 1`) {
		t.Error("metrics missing the limited toggle")
	}
}

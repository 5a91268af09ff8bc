package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gudlft/internal/adapters/http/middleware"
	"gudlft/internal/adapters/http/perf"
)

func newTestMux(t *testing.T, production bool) http.Handler {
	t.Helper()
	env := setupTest(t)
	t.Cleanup(func() {
		middleware.SecureCookies = false
		Shutdown()
	})
	return NewMux(stores, perf.NewCollector(10), Options{
		Production:  production,
		CSRFKey:     make([]byte, 32),
		EmailSender: env.sender,
	})
}

func TestNewMux_ServesIndexWithHeaders(t *testing.T) {
	h := newTestMux(t, false)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("security headers missing")
	}
	if !strings.Contains(rr.Body.String(), `name="gorilla.csrf.Token"`) {
		t.Error("login form has no CSRF field")
	}
}

func TestNewMux_RejectsPostWithoutCSRFToken(t *testing.T) {
	h := newTestMux(t, false)
	form := url.Values{"club": {"Simply Lift"}, "competition": {"Spring Festival"}, "places": {"1"}}
	req := httptest.NewRequest("POST", "/purchasePlaces", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

func TestNewMux_DebugPerfHiddenInProduction(t *testing.T) {
	h := newTestMux(t, true)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/debug/perf", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestNewMux_UnknownPath(t *testing.T) {
	h := newTestMux(t, false)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestNewMux_StopsPreviousLimiter(t *testing.T) {
	newTestMux(t, false)
	first := rateLimiter
	newTestMux(t, false)
	second := rateLimiter

	select {
	case <-first.Done():
	default:
		t.Error("first limiter still running after a second NewMux")
	}
	select {
	case <-second.Done():
		t.Fatal("current limiter stopped early")
	default:
	}

	Shutdown()
	select {
	case <-second.Done():
	default:
		t.Error("Shutdown did not stop the limiter")
	}
}

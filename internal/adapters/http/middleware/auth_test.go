package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionStore_CreateGetDelete(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("Simply Lift", "john@simplylift.co")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64", len(token))
	}

	sess, ok := ss.Get(token)
	if !ok || sess.ClubName != "Simply Lift" || sess.Email != "john@simplylift.co" {
		t.Fatalf("Get = %+v, %v", sess, ok)
	}

	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("session still present after Delete")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	ss := NewSessionStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }

	token, err := ss.Create("Simply Lift", "john@simplylift.co")
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(SessionTTL + time.Second)

	if _, ok := ss.Get(token); ok {
		t.Error("expired session returned")
	}
	if ss.Len() != 0 {
		t.Errorf("Len = %d, want expired session dropped", ss.Len())
	}
}

func TestAuth_SetsSessionInContext(t *testing.T) {
	ss := NewSessionStore()
	token, _ := ss.Create("Iron Temple", "admin@irontemple.com")

	var got Session
	var found bool
	handler := Auth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = GetSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/showSummary", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !found || got.ClubName != "Iron Temple" {
		t.Errorf("session = %+v found = %v", got, found)
	}
}

func TestAuth_UnknownTokenIsAnonymous(t *testing.T) {
	var found bool
	handler := Auth(NewSessionStore())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = GetSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("forged token produced a session")
	}
}

func TestRequireClub(t *testing.T) {
	handler := RequireClub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/showSummary", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Errorf("anonymous: status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}

	req := httptest.NewRequest("GET", "/showSummary", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{ClubName: "Simply Lift"}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTeapot {
		t.Errorf("logged in: status = %d, want handler to run", rr.Code)
	}
}

func TestSessionCookies(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "abc")
	ClearSessionCookie(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	if cookies[0].Value != "abc" || !cookies[0].HttpOnly {
		t.Errorf("set cookie = %+v", cookies[0])
	}
	if cookies[1].MaxAge >= 0 {
		t.Errorf("clear cookie MaxAge = %d, want negative", cookies[1].MaxAge)
	}
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spec-summarizer/internal/domain"
	"spec-summarizer/internal/service"
)

func TestSessionMiddleware_StartsSession(t *testing.T) {
	sessions := service.NewMemorySessionStore(time.Hour, nil, NewMockHandlerLogger())
	var seen *domain.Session
	h := SessionMiddleware(sessions, NewMockHandlerLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == nil {
		t.Fatalf("expected session in context")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].Value != seen.ID {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
}

func TestSessionMiddleware_ReusesSession(t *testing.T) {
	sessions := service.NewMemorySessionStore(time.Hour, nil, NewMockHandlerLogger())
	existing, _ := sessions.Create()

	var seen *domain.Session
	h := SessionMiddleware(sessions, NewMockHandlerLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: existing.ID})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen == nil || seen.ID != existing.ID {
		t.Fatalf("expected existing session to be loaded")
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie for an existing session")
	}
}

func TestSessionMiddleware_UnknownCookie(t *testing.T) {
	sessions := service.NewMemorySessionStore(time.Hour, nil, NewMockHandlerLogger())

	var seen *domain.Session
	h := SessionMiddleware(sessions, NewMockHandlerLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen == nil || seen.ID == "expired" {
		t.Fatalf("expected a fresh session")
	}
	if len(rr.Result().Cookies()) != 1 {
		t.Fatalf("expected a replacement cookie")
	}
}

func TestRequestLogger_RecordsStatus(t *testing.T) {
	h := RequestLogger(NewMockHandlerLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status to pass through, got %d", rr.Code)
	}
}

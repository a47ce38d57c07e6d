package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chat-history/internal/llm"
)

func TestRouter_CORSPreflightAllowedOrigin(t *testing.T) {
	r := setupChatRouter(newSQLiteRepo(t), &llm.MockProvider{Response: "ok"})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Fatalf("expected allowed origin, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
}

func TestRouter_CORSPreflightWritesStatusOnce(t *testing.T) {
	r := setupChatRouter(newSQLiteRepo(t), &llm.MockProvider{Response: "ok"})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := &countingRecorder{ResponseRecorder: httptest.NewRecorder()}
	r.ServeHTTP(rec, req)

	if rec.writes != 1 {
		t.Fatalf("expected a single WriteHeader, got %d", rec.writes)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

type countingRecorder struct {
	*httptest.ResponseRecorder
	writes int
}

func (r *countingRecorder) WriteHeader(code int) {
	r.writes++
	r.ResponseRecorder.WriteHeader(code)
}

func TestRouter_CORSRejectsOtherOrigin(t *testing.T) {
	r := setupChatRouter(newSQLiteRepo(t), &llm.MockProvider{Response: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/chat?sessionId=s1", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}

func TestRouter_RequestID(t *testing.T) {
	r := setupChatRouter(newSQLiteRepo(t), &llm.MockProvider{Response: "ok"})

	rec := performRequest(r, http.MethodGet, "/healthz", nil)
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

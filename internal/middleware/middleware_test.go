package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"GET without content type", http.MethodGet, "", http.StatusOK},
		{"POST json", http.MethodPost, "application/json", http.StatusOK},
		{"PATCH json with charset", http.MethodPatch, "application/json; charset=utf-8", http.StatusOK},
		{"POST missing", http.MethodPost, "", http.StatusBadRequest},
		{"PATCH form", http.MethodPatch, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, "/api/v1/goals", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			ContentType(okHandler).ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	t.Parallel()

	readAll := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mw := MaxRequestSize(32)(readAll)

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, small)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for small body, got %d", w.Code)
	}

	large := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 64)+`"}`))
	w = httptest.NewRecorder()
	mw.ServeHTTP(w, large)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413 for declared large body, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON error, got Content-Type %q", ct)
	}

	// no declared length, the reader enforces the limit
	streamed := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 64)+`"}`))
	streamed.ContentLength = -1
	w = httptest.NewRecorder()
	mw.ServeHTTP(w, streamed)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413 for streamed large body, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler).ServeHTTP(w, req)

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("Expected %s %q, got %q", header, value, got)
		}
	}
	// plain HTTP never gets HSTS
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Expected no HSTS over plain HTTP, got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	RequestID(handler).ServeHTTP(w, req)
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("Expected generated uuid request id, got %q", seen)
	}
	if w.Header().Get(RequestIDHeader) != seen {
		t.Errorf("Expected response header to echo %q, got %q", seen, w.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	RequestID(handler).ServeHTTP(httptest.NewRecorder(), req)
	if seen != "client-supplied" {
		t.Errorf("Expected inbound request id to be reused, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("a", 200))
	RequestID(handler).ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) > maxRequestIDLength {
		t.Errorf("Expected oversized request id to be replaced, got length %d", len(seen))
	}

	if got := RequestIDFromContext(req.Context()); got != "" {
		t.Errorf("Expected empty request id outside middleware, got %q", got)
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		}
	})

	w := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(slow).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 on timeout, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Request Timeout") {
		t.Errorf("Expected timeout body, got %q", w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	mw := CORS([]string{"http://app.example"}, nil)(okHandler)

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/goals", nil)
	preflight.Header.Set("Origin", "http://app.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, preflight)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://app.example" {
		t.Errorf("Expected allowed origin on preflight, got %q", got)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
	other.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	mw.ServeHTTP(w, other)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for disallowed origin, got %q", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected request to pass through, got %d", w.Code)
	}
}

func TestRateLimit_MemoryStore(t *testing.T) {
	t.Parallel()

	store, err := NewLimiterStore(nil)
	if err != nil {
		t.Fatalf("NewLimiterStore() error = %v", err)
	}
	mw, err := RateLimit(store, "2-M")
	if err != nil {
		t.Fatalf("RateLimit() error = %v", err)
	}
	handler := mw(okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send("1.1.1.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	w := send("1.1.1.1")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after limit, got %d", w.Code)
	}
	var body ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Error != "Too Many Requests" {
		t.Errorf("Expected 'Too Many Requests', got %q", body.Error)
	}

	if w := send("2.2.2.2"); w.Code != http.StatusOK {
		t.Errorf("Expected other client to be unaffected, got %d", w.Code)
	}
}

func TestRateLimit_InvalidRate(t *testing.T) {
	t.Parallel()

	store, _ := NewLimiterStore(nil)
	if _, err := RateLimit(store, "fast"); err == nil {
		t.Error("Expected error for invalid rate")
	}
}

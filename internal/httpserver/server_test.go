package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/slimreset/slimcoach/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              8080,
		AuthMode:          "none",
		UploadMaxMB:       10,
		UploadAllowedMime: "text/plain",
		ChatHistoryLimit:  50,
	}
}

func TestHealthz(t *testing.T) {
	srv := New(testConfig())
	defer srv.Close()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := New(testConfig())
	defer srv.Close()

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestWeightRoute(t *testing.T) {
	srv := New(testConfig())
	defer srv.Close()

	body := strings.NewReader(`{"weight":154,"unit":"lbs","date":"2026-03-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/weights", body)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upsert status = %d, want 200: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/weights?from=2026-03-01&to=2026-03-01", nil)
	w = httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "2026-03-01") {
		t.Errorf("list body = %s, want logged entry", w.Body.String())
	}
}

func TestChatSessionRoute(t *testing.T) {
	srv := New(testConfig())
	defer srv.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/session", strings.NewReader(`{"resume":false}`))
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("session status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "SlimCoach Ava") {
		t.Errorf("session body = %s, want welcome message", w.Body.String())
	}
}

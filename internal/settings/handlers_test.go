package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slimreset/slimcoach/internal/config"
	"github.com/slimreset/slimcoach/internal/storage/memory"
	"github.com/slimreset/slimcoach/internal/userctx"
)

func TestSettingsHandlersGetDefault(t *testing.T) {
	mem := memory.New()
	cfg := &config.Config{DefaultTimeZone: "America/Vancouver"}

	service := NewService(mem.GetSettingsStorage(), cfg)
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
	req = req.WithContext(userctx.WithUserID(context.Background(), "user-a"))
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp SettingsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}

	if !resp.IsDefault {
		t.Fatalf("expected is_default=true")
	}
	if !resp.Settings.NotificationsEnabled {
		t.Fatalf("expected notifications enabled by default")
	}
	if resp.Settings.TimeZone == nil || *resp.Settings.TimeZone != "America/Vancouver" {
		t.Fatalf("expected default time zone, got %v", resp.Settings.TimeZone)
	}
}

func TestSettingsHandlersPutAndGet(t *testing.T) {
	mem := memory.New()
	cfg := &config.Config{DefaultTimeZone: "UTC"}

	service := NewService(mem.GetSettingsStorage(), cfg)
	handler := NewHandler(service)

	timeZone := "Europe/Berlin"
	payload := SettingsDTO{
		TimeZone:             &timeZone,
		NotificationsEnabled: true,
		DisabledWindows:      []string{"WAKE_UP", "END_OF_DAY"},
	}

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, "/v1/settings", bytes.NewReader(body))
	req = req.WithContext(userctx.WithUserID(context.Background(), "user-b"))
	w := httptest.NewRecorder()
	handler.HandlePut(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", w.Code, w.Body.String())
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/v1/settings", nil)
	reqGet = reqGet.WithContext(userctx.WithUserID(context.Background(), "user-b"))
	wGet := httptest.NewRecorder()
	handler.HandleGet(wGet, reqGet)

	if wGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", wGet.Code)
	}

	var resp SettingsResponse
	if err := json.NewDecoder(wGet.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if resp.IsDefault {
		t.Fatalf("expected is_default=false after put")
	}
	if resp.Settings.TimeZone == nil || *resp.Settings.TimeZone != "Europe/Berlin" {
		t.Fatalf("expected stored time zone, got %v", resp.Settings.TimeZone)
	}
	if len(resp.Settings.DisabledWindows) != 2 {
		t.Fatalf("expected 2 disabled windows, got %v", resp.Settings.DisabledWindows)
	}
}

func TestSettingsHandlersInvalidTimeZone(t *testing.T) {
	mem := memory.New()
	cfg := &config.Config{}
	service := NewService(mem.GetSettingsStorage(), cfg)
	handler := NewHandler(service)

	invalidBody := []byte(`{"time_zone": "Mars/Olympus_Mons"}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/settings", bytes.NewReader(invalidBody))
	req = req.WithContext(userctx.WithUserID(context.Background(), "user-c"))
	w := httptest.NewRecorder()
	handler.HandlePut(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestSettingsHandlersInvalidWindowKey(t *testing.T) {
	mem := memory.New()
	cfg := &config.Config{}
	service := NewService(mem.GetSettingsStorage(), cfg)
	handler := NewHandler(service)

	invalidBody := []byte(`{"disabled_windows": ["SECOND_BREAKFAST"]}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/settings", bytes.NewReader(invalidBody))
	req = req.WithContext(userctx.WithUserID(context.Background(), "user-c"))
	w := httptest.NewRecorder()
	handler.HandlePut(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", w.Code, w.Body.String())
	}
}

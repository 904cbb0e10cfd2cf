package moods

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slimreset/slimcoach/internal/storage/memory"
)

func TestLogAndList(t *testing.T) {
	service := NewService(memory.NewMoodsMemoryStorage())

	if _, err := service.Log(context.Background(), "default", LogMoodRequest{Note: "feeling great", Date: "2026-03-01"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if _, err := service.Log(context.Background(), "default", LogMoodRequest{Note: "a bit tired", Date: "2026-03-01"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	entries, err := service.List(context.Background(), "default", "2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 mood entries, got %d", len(entries))
	}
	if entries[0].Note != "feeling great" {
		t.Errorf("expected entries in creation order, got %s first", entries[0].Note)
	}
}

func TestLogMissingNote(t *testing.T) {
	service := NewService(memory.NewMoodsMemoryStorage())

	if _, err := service.Log(context.Background(), "default", LogMoodRequest{Note: "   "}); err != ErrMissingNote {
		t.Errorf("expected ErrMissingNote, got %v", err)
	}
}

func TestHandleLog(t *testing.T) {
	service := NewService(memory.NewMoodsMemoryStorage())

	body, _ := json.Marshal(LogMoodRequest{Note: "motivated today", Date: "2026-03-01"})
	req := httptest.NewRequest("POST", "/v1/moods", bytes.NewReader(body))
	w := httptest.NewRecorder()

	HandleLog(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp MoodDTO
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.Note != "motivated today" {
		t.Errorf("expected note to round-trip, got %s", resp.Note)
	}
}

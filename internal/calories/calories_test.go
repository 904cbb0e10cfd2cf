package calories

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/storage/memory"
)

func TestSameDayKindReplaces(t *testing.T) {
	service := NewService(memory.NewCaloriesMemoryStorage())

	if _, err := service.Upsert(context.Background(), "default", UpsertCalorieRequest{Kind: storage.CalorieConsumed, Kcal: 200, Date: "2026-03-01"}); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if _, err := service.Upsert(context.Background(), "default", UpsertCalorieRequest{Kind: storage.CalorieConsumed, Kcal: 350, Date: "2026-03-01"}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	entries, err := service.List(context.Background(), "default", "2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after same-day replace, got %d", len(entries))
	}
	if entries[0].Kcal != 350 {
		t.Errorf("expected 350 kcal, got %f", entries[0].Kcal)
	}
}

func TestConsumedAndBurnedCoexist(t *testing.T) {
	service := NewService(memory.NewCaloriesMemoryStorage())

	if _, err := service.Upsert(context.Background(), "default", UpsertCalorieRequest{Kind: storage.CalorieConsumed, Kcal: 800, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Upsert consumed failed: %v", err)
	}
	if _, err := service.Upsert(context.Background(), "default", UpsertCalorieRequest{Kind: storage.CalorieBurned, Kcal: 300, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Upsert burned failed: %v", err)
	}

	entries, err := service.List(context.Background(), "default", "2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected consumed and burned entries, got %d", len(entries))
	}
}

func TestUpsertInvalidKind(t *testing.T) {
	service := NewService(memory.NewCaloriesMemoryStorage())

	if _, err := service.Upsert(context.Background(), "default", UpsertCalorieRequest{Kind: "net", Kcal: 100}); err != ErrInvalidKind {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}

func TestHandleUpsert(t *testing.T) {
	service := NewService(memory.NewCaloriesMemoryStorage())

	body, _ := json.Marshal(UpsertCalorieRequest{Kind: storage.CalorieBurned, Kcal: 300, Date: "2026-03-01"})
	req := httptest.NewRequest("POST", "/v1/calories", bytes.NewReader(body))
	w := httptest.NewRecorder()

	HandleUpsert(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp CalorieDTO
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.Kind != storage.CalorieBurned {
		t.Errorf("expected kind burned, got %s", resp.Kind)
	}
	if resp.Kcal != 300 {
		t.Errorf("expected 300 kcal, got %f", resp.Kcal)
	}
}

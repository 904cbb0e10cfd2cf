package weights

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slimreset/slimcoach/internal/storage/memory"
)

func TestUpsertConvertsToKg(t *testing.T) {
	service := NewService(memory.NewWeightsMemoryStorage())

	dto, err := service.Upsert(context.Background(), "default", UpsertWeightRequest{
		Weight: 154,
		Unit:   "lbs",
		Date:   "2026-03-01",
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if dto.Kg < 69.8 || dto.Kg > 70.0 {
		t.Errorf("expected roughly 69.9 kg, got %f", dto.Kg)
	}
	if dto.Lbs != 154 {
		t.Errorf("expected 154 lbs display, got %d", dto.Lbs)
	}
}

func TestDisplayLbsRounding(t *testing.T) {
	if got := DisplayLbs(70); got != 154 {
		t.Errorf("expected 70 kg to display as 154 lbs, got %d", got)
	}
	if got := DisplayLbs(80); got != 176 {
		t.Errorf("expected 80 kg to display as 176 lbs, got %d", got)
	}
}

func TestSameDateReplaces(t *testing.T) {
	service := NewService(memory.NewWeightsMemoryStorage())

	if _, err := service.Upsert(context.Background(), "default", UpsertWeightRequest{Weight: 70, Unit: "kg", Date: "2026-03-01"}); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if _, err := service.Upsert(context.Background(), "default", UpsertWeightRequest{Weight: 69.5, Unit: "kg", Date: "2026-03-01"}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	entries, err := service.List(context.Background(), "default", "2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after same-date replace, got %d", len(entries))
	}
	if entries[0].Kg != 69.5 {
		t.Errorf("expected 69.5 kg, got %f", entries[0].Kg)
	}
}

func TestLatest(t *testing.T) {
	service := NewService(memory.NewWeightsMemoryStorage())

	for _, w := range []struct {
		kg   float64
		date string
	}{
		{71, "2026-03-01"},
		{70.2, "2026-03-03"},
		{70.6, "2026-03-02"},
	} {
		if _, err := service.Upsert(context.Background(), "default", UpsertWeightRequest{Weight: w.kg, Unit: "kg", Date: w.date}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	latest, err := service.Latest(context.Background(), "default", "2026-03-10")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.Date != "2026-03-03" {
		t.Errorf("expected latest date 2026-03-03, got %s", latest.Date)
	}
}

func TestHandleUpsertInvalidUnit(t *testing.T) {
	service := NewService(memory.NewWeightsMemoryStorage())

	body, _ := json.Marshal(UpsertWeightRequest{Weight: 70, Unit: "stone"})
	req := httptest.NewRequest("POST", "/v1/weights", bytes.NewReader(body))
	w := httptest.NewRecorder()

	HandleUpsert(service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleList(t *testing.T) {
	service := NewService(memory.NewWeightsMemoryStorage())

	if _, err := service.Upsert(context.Background(), "default", UpsertWeightRequest{Weight: 70, Unit: "kg", Date: "2026-03-01"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/v1/weights?from=2026-03-01&to=2026-03-31", nil)
	w := httptest.NewRecorder()

	HandleList(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp WeightsResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if len(resp.Weights) != 1 {
		t.Fatalf("expected 1 weight, got %d", len(resp.Weights))
	}
	if resp.Weights[0].Lbs != 154 {
		t.Errorf("expected 154 lbs, got %d", resp.Weights[0].Lbs)
	}
}

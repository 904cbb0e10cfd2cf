package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/storage/memory"
)

func newTestService() (*Service, *memory.MemoryStorage) {
	mem := memory.New()
	service := NewService(mem.GetWeightsStorage(), mem.GetMealsStorage(), mem.GetCaloriesStorage(), mem.GetMoodsStorage())
	return service, mem
}

func seedDay(t *testing.T, mem *memory.MemoryStorage, date string) {
	t.Helper()
	ctx := context.Background()

	if err := mem.GetWeightsStorage().UpsertWeight(ctx, &storage.WeightEntry{UserID: "default", Kg: 70, Date: date}); err != nil {
		t.Fatalf("UpsertWeight() error = %v", err)
	}
	if err := mem.GetCaloriesStorage().UpsertCalorie(ctx, &storage.CalorieEntry{UserID: "default", Kind: storage.CalorieConsumed, Kcal: 650, Date: date}); err != nil {
		t.Fatalf("UpsertCalorie() error = %v", err)
	}
	if err := mem.GetCaloriesStorage().UpsertCalorie(ctx, &storage.CalorieEntry{UserID: "default", Kind: storage.CalorieBurned, Kcal: 300, Date: date}); err != nil {
		t.Fatalf("UpsertCalorie() error = %v", err)
	}
	if err := mem.GetMealsStorage().InsertMeal(ctx, &storage.MealEntry{UserID: "default", FoodID: "0", Label: "Oatmeal", MealType: "breakfast", Quantity: "1", Unit: "g", Date: date}); err != nil {
		t.Fatalf("InsertMeal() error = %v", err)
	}
	if err := mem.GetMealsStorage().InsertMeal(ctx, &storage.MealEntry{UserID: "default", FoodID: "0", Label: "Chicken Breast", MealType: "lunch", Quantity: "2", Unit: "g", Date: date}); err != nil {
		t.Fatalf("InsertMeal() error = %v", err)
	}
	if err := mem.GetMoodsStorage().InsertMood(ctx, &storage.MoodEntry{UserID: "default", Note: "feeling good", Date: date}); err != nil {
		t.Fatalf("InsertMood() error = %v", err)
	}
}

func TestGetDaySummary(t *testing.T) {
	service, mem := newTestService()
	seedDay(t, mem, "2026-03-01")

	summary, err := service.GetDaySummary(context.Background(), "default", "2026-03-01")
	if err != nil {
		t.Fatalf("GetDaySummary() error = %v", err)
	}

	if summary.Weight == nil {
		t.Fatal("expected weight summary")
	}
	if summary.Weight.Kg != 70 {
		t.Errorf("Weight.Kg = %v, want 70", summary.Weight.Kg)
	}
	if summary.Weight.Lbs != 154 {
		t.Errorf("Weight.Lbs = %d, want 154", summary.Weight.Lbs)
	}
	if summary.Calories.Consumed == nil || *summary.Calories.Consumed != 650 {
		t.Errorf("Calories.Consumed = %v, want 650", summary.Calories.Consumed)
	}
	if summary.Calories.Burned == nil || *summary.Calories.Burned != 300 {
		t.Errorf("Calories.Burned = %v, want 300", summary.Calories.Burned)
	}
	if len(summary.Meals["breakfast"]) != 1 || summary.Meals["breakfast"][0].Label != "Oatmeal" {
		t.Errorf("breakfast meals = %+v, want Oatmeal", summary.Meals["breakfast"])
	}
	if len(summary.Meals["lunch"]) != 1 || summary.Meals["lunch"][0].Label != "Chicken Breast" {
		t.Errorf("lunch meals = %+v, want Chicken Breast", summary.Meals["lunch"])
	}
	if summary.Mood == nil || summary.Mood.Note != "feeling good" {
		t.Errorf("Mood = %+v, want feeling good", summary.Mood)
	}

	wantMissing := []string{"dinner"}
	if len(summary.MissingFields) != len(wantMissing) || summary.MissingFields[0] != "dinner" {
		t.Errorf("MissingFields = %v, want %v", summary.MissingFields, wantMissing)
	}
}

func TestGetDaySummaryEmptyDay(t *testing.T) {
	service, _ := newTestService()

	summary, err := service.GetDaySummary(context.Background(), "default", "2026-03-01")
	if err != nil {
		t.Fatalf("GetDaySummary() error = %v", err)
	}

	if summary.Weight != nil {
		t.Errorf("Weight = %+v, want nil", summary.Weight)
	}
	if summary.Mood != nil {
		t.Errorf("Mood = %+v, want nil", summary.Mood)
	}
	want := map[string]bool{"weight": true, "calories_consumed": true, "breakfast": true, "lunch": true, "dinner": true, "mood": true}
	if len(summary.MissingFields) != len(want) {
		t.Fatalf("MissingFields = %v, want %d entries", summary.MissingFields, len(want))
	}
	for _, f := range summary.MissingFields {
		if !want[f] {
			t.Errorf("unexpected missing field %q", f)
		}
	}
}

func TestGetDaySummaryDefaultsToToday(t *testing.T) {
	service, mem := newTestService()
	today := time.Now().UTC().Format("2006-01-02")
	seedDay(t, mem, today)

	summary, err := service.GetDaySummary(context.Background(), "default", "")
	if err != nil {
		t.Fatalf("GetDaySummary() error = %v", err)
	}
	if summary.Date != today {
		t.Errorf("Date = %q, want %q", summary.Date, today)
	}
	if summary.Weight == nil {
		t.Error("expected weight summary for today")
	}
}

func TestGetDaySummaryInvalidDate(t *testing.T) {
	service, _ := newTestService()

	if _, err := service.GetDaySummary(context.Background(), "default", "03/01/2026"); err != ErrInvalidDate {
		t.Fatalf("GetDaySummary() error = %v, want ErrInvalidDate", err)
	}
}

func TestHandleGetSummary(t *testing.T) {
	service, mem := newTestService()
	seedDay(t, mem, "2026-03-01")

	req := httptest.NewRequest(http.MethodGet, "/v1/tracker/summary?date=2026-03-01", nil)
	rec := httptest.NewRecorder()
	HandleGetSummary(service)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp SummaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Date != "2026-03-01" {
		t.Errorf("Date = %q, want 2026-03-01", resp.Date)
	}
	if resp.Weight == nil || resp.Weight.Lbs != 154 {
		t.Errorf("Weight = %+v, want 154 lbs", resp.Weight)
	}
}

func TestHandleGetSummaryInvalidDate(t *testing.T) {
	service, _ := newTestService()

	req := httptest.NewRequest(http.MethodGet, "/v1/tracker/summary?date=bogus", nil)
	rec := httptest.NewRecorder()
	HandleGetSummary(service)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "invalid_date" {
		t.Errorf("error code = %q, want invalid_date", resp.Error.Code)
	}
}

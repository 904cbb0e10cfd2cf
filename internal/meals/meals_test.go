package meals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slimreset/slimcoach/internal/nutrition"
	"github.com/slimreset/slimcoach/internal/storage/memory"
)

// failingLookup always errors, for the unenriched-fallback path
type failingLookup struct{}

func (failingLookup) Lookup(ctx context.Context, foodItem, quantity string) (*nutrition.FoodFacts, error) {
	return nil, errors.New("service unavailable")
}

func TestLogEnrichesMeal(t *testing.T) {
	service := NewService(memory.NewMealsMemoryStorage(), nutrition.NewMockLookup())

	meal, err := service.Log(context.Background(), "default", LogMealRequest{
		Name:     "chicken breast",
		Quantity: "2 pieces",
		MealType: TypeLunch,
		Date:     "2026-03-01",
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if !meal.Enriched {
		t.Error("expected meal to be enriched")
	}
	if meal.Calories == "0" {
		t.Error("expected non-zero calories")
	}
	if meal.Protein == "0.0g" {
		t.Error("expected non-zero protein")
	}
	if meal.Unit != "g" {
		t.Errorf("expected unit g, got %s", meal.Unit)
	}
}

func TestLogLookupFailureStoresUnenriched(t *testing.T) {
	service := NewService(memory.NewMealsMemoryStorage(), failingLookup{})

	meal, err := service.Log(context.Background(), "default", LogMealRequest{
		Name:     "mystery stew",
		Quantity: "1 bowl",
		MealType: TypeDinner,
		Date:     "2026-03-01",
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if meal.Enriched {
		t.Error("expected meal to be stored unenriched")
	}
	if meal.Label != "mystery stew" {
		t.Errorf("expected raw name as label, got %s", meal.Label)
	}
	if meal.FoodID != "0" {
		t.Errorf("expected fallback foodId 0, got %s", meal.FoodID)
	}

	meals, err := service.List(context.Background(), "default", "2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("expected 1 stored meal, got %d", len(meals))
	}
}

func TestLogDefaultsQuantityAndType(t *testing.T) {
	service := NewService(memory.NewMealsMemoryStorage(), nutrition.NewMockLookup())

	meal, err := service.Log(context.Background(), "default", LogMealRequest{
		Name: "apple",
		Date: "2026-03-01",
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if meal.Amount != "1" {
		t.Errorf("expected default quantity 1, got %s", meal.Amount)
	}
	if meal.Type != TypeUnknown {
		t.Errorf("expected type unknown, got %s", meal.Type)
	}
}

func TestWireFormat(t *testing.T) {
	service := NewService(memory.NewMealsMemoryStorage(), nutrition.NewMockLookup())

	meal, err := service.Log(context.Background(), "default", LogMealRequest{
		Name:     "chicken breast",
		Quantity: "1 piece",
		MealType: TypeLunch,
		Date:     "2026-03-01",
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if meal.SatFat != "0.0g" {
		t.Errorf("expected satFat 0.0g, got %s", meal.SatFat)
	}
	if meal.Cholesterol != "0mg" {
		t.Errorf("expected cholesterol 0mg, got %s", meal.Cholesterol)
	}
	if meal.Protein != "31.0g" {
		t.Errorf("expected protein 31.0g, got %s", meal.Protein)
	}
	if meal.Calories != "165" {
		t.Errorf("expected calories 165, got %s", meal.Calories)
	}
}

func TestHandleLogInvalidType(t *testing.T) {
	service := NewService(memory.NewMealsMemoryStorage(), nutrition.NewMockLookup())

	body, _ := json.Marshal(LogMealRequest{Name: "apple", MealType: "brunch"})
	req := httptest.NewRequest("POST", "/v1/meals", bytes.NewReader(body))
	w := httptest.NewRecorder()

	HandleLog(service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleList(t *testing.T) {
	service := NewService(memory.NewMealsMemoryStorage(), nutrition.NewMockLookup())

	if _, err := service.Log(context.Background(), "default", LogMealRequest{Name: "apple", Quantity: "1", MealType: TypeSnack, Date: "2026-03-01"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/v1/meals?from=2026-03-01&to=2026-03-31", nil)
	w := httptest.NewRecorder()

	HandleList(service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp MealsResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if len(resp.Meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(resp.Meals))
	}
}

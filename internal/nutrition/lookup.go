package nutrition

import (
	"context"
	"errors"
)

// ErrNotFound means the provider had no match for the food query.
var ErrNotFound = errors.New("no food data found")

// FoodFacts is the per-100g nutrition profile of one food item.
type FoodFacts struct {
	FoodID   string  `json:"foodId"`
	Label    string  `json:"label"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Lookup resolves a food name plus quantity to nutrition facts.
type Lookup interface {
	Lookup(ctx context.Context, foodItem, quantity string) (*FoodFacts, error)
}

package nutrition

import (
	"context"
	"strings"
)

// MockLookup serves a small fixed food table for tests and local development.
type MockLookup struct {
	table map[string]FoodFacts
}

func NewMockLookup() *MockLookup {
	return &MockLookup{
		table: map[string]FoodFacts{
			"chicken breast": {FoodID: "food_chicken_breast", Label: "Chicken Breast", Calories: 165, Protein: 31, Fat: 3.6, Carbs: 0, Fiber: 0, Sugar: 0, Sodium: 74},
			"apple":          {FoodID: "food_apple", Label: "Apple", Calories: 52, Protein: 0.3, Fat: 0.2, Carbs: 13.8, Fiber: 2.4, Sugar: 10.4, Sodium: 1},
			"egg":            {FoodID: "food_egg", Label: "Egg", Calories: 155, Protein: 13, Fat: 11, Carbs: 1.1, Fiber: 0, Sugar: 1.1, Sodium: 124},
			"oatmeal":        {FoodID: "food_oatmeal", Label: "Oatmeal", Calories: 68, Protein: 2.4, Fat: 1.4, Carbs: 12, Fiber: 1.7, Sugar: 0.5, Sodium: 49},
			"salmon":         {FoodID: "food_salmon", Label: "Salmon", Calories: 208, Protein: 20, Fat: 13, Carbs: 0, Fiber: 0, Sugar: 0, Sodium: 59},
			"rice":           {FoodID: "food_rice", Label: "Rice", Calories: 130, Protein: 2.7, Fat: 0.3, Carbs: 28, Fiber: 0.4, Sugar: 0.1, Sodium: 1},
		},
	}
}

func (l *MockLookup) Lookup(ctx context.Context, foodItem, quantity string) (*FoodFacts, error) {
	_ = ctx

	key := strings.ToLower(strings.TrimSpace(foodItem))
	if facts, ok := l.table[key]; ok {
		f := facts
		return &f, nil
	}

	// Substring match so "grilled chicken breast" still resolves.
	for name, facts := range l.table {
		if strings.Contains(key, name) {
			f := facts
			return &f, nil
		}
	}

	return nil, ErrNotFound
}

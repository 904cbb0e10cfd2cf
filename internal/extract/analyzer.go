package extract

import (
	"context"
	"strings"
)

// MealMention is one food item pulled out of a user message. Quantity and
// MealType are nil when the message did not state them.
type MealMention struct {
	Name     string  `json:"name"`
	Quantity *string `json:"quantity"`
	MealType *string `json:"meal_type"`
}

// Analysis is the structured read of a single user message. It lives for one
// turn only and is never persisted.
type Analysis struct {
	MealsEaten        []MealMention `json:"meals_eaten"`
	CurrentWeight     *float64      `json:"current_weight"`
	WeightUnit        *string       `json:"weight_unit"`
	CaloriesConsumed  *float64      `json:"calories_consumed"`
	CaloriesBurned    *float64      `json:"calories_burned"`
	Mood              *string       `json:"mood"`
	IsQuantityOnly    bool          `json:"is_quantity_only"`
	ExtractedQuantity *string       `json:"extracted_quantity"`
}

// Analyzer extracts structured health data from free text. A nil Analysis
// with a nil error means "could not extract"; the caller falls back to plain
// chat rather than failing the turn.
type Analyzer interface {
	Analyze(ctx context.Context, userInput string) (*Analysis, error)
}

// HasMeals reports whether the analysis mentions at least one food item.
func (a *Analysis) HasMeals() bool {
	return a != nil && len(a.MealsEaten) > 0
}

// stripCodeFences removes markdown code fences the models sometimes wrap
// around their JSON output.
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if strings.HasPrefix(cleaned, "`") && strings.HasSuffix(cleaned, "`") && len(cleaned) >= 2 {
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}
	return cleaned
}

// missingQuantity reports whether a stated quantity still needs clarifying.
// The models sometimes fill in "1" or "unknown" instead of leaving the field
// out.
func missingQuantity(q *string) bool {
	if q == nil {
		return true
	}
	v := strings.TrimSpace(strings.ToLower(*q))
	return v == "" || v == "1" || v == "unknown" || v == "null"
}

// MissingQuantity is the exported form used by the turn resolver.
func (m MealMention) MissingQuantity() bool {
	return missingQuantity(m.Quantity)
}

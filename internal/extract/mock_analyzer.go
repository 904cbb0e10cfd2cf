package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// MockAnalyzer is a deterministic rule-based analyzer for tests and local
// development. It understands the handful of phrasings the test scenarios
// use; anything else comes back as an empty analysis (plain chat).
type MockAnalyzer struct{}

func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

var (
	mockWeightRe   = regexp.MustCompile(`(?i)(?:weight\s+is|i\s+weigh(?:ed)?|weighed)\s*(\d+(?:\.\d+)?)\s*(kg|kgs|kilograms?|lbs?|pounds?)`)
	mockBurnedRe   = regexp.MustCompile(`(?i)(?:burned|burnt)\s*(\d+(?:\.\d+)?)\s*(?:calories|kcal|cal)?|(\d+(?:\.\d+)?)\s*(?:calories|kcal)\s*(?:burned|burnt)`)
	mockConsumedRe = regexp.MustCompile(`(?i)(?:consumed|ate)\s*(\d+(?:\.\d+)?)\s*(?:calories|kcal)|(\d+(?:\.\d+)?)\s*(?:calories|kcal)\s*consumed`)
	mockMealRe     = regexp.MustCompile(`(?i)(?:i\s+)?(?:ate|had|eat)\s+(?:a\s+|an\s+|some\s+)?(\d+(?:\.\d+)?\s*(?:cups?|pieces?|slices?|grams?|g|oz|servings?)?\s*)?([a-z][a-z\s]*?)(?:\s+for\s+(breakfast|lunch|dinner|snack))?(?:\s+and\b.*)?$`)
	mockMoodRe     = regexp.MustCompile(`(?i)(?:i\s+feel|i'?m\s+feeling|feeling)\s+([a-z\s]+?)(?:\s+today)?[.!]?$`)
)

func (a *MockAnalyzer) Analyze(ctx context.Context, userInput string) (*Analysis, error) {
	_ = ctx

	analysis := &Analysis{}
	lowered := strings.ToLower(strings.TrimSpace(userInput))

	if ok, quantity := DetectQuantityOnly(userInput); ok {
		analysis.IsQuantityOnly = true
		analysis.ExtractedQuantity = &quantity
		return analysis, nil
	}

	if m := mockWeightRe.FindStringSubmatch(lowered); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			analysis.CurrentWeight = &v
			unit := "kg"
			if strings.HasPrefix(m[2], "lb") || strings.HasPrefix(m[2], "pound") {
				unit = "lbs"
			}
			analysis.WeightUnit = &unit
		}
	}

	if m := mockBurnedRe.FindStringSubmatch(lowered); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			analysis.CaloriesBurned = &v
		}
	}

	if m := mockConsumedRe.FindStringSubmatch(lowered); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			analysis.CaloriesConsumed = &v
		}
	}

	if m := mockMoodRe.FindStringSubmatch(lowered); m != nil {
		mood := strings.TrimSpace(m[1])
		if mood != "" {
			analysis.Mood = &mood
		}
	}

	// A calorie statement like "ate 300 calories" is not a meal mention.
	if analysis.CaloriesConsumed == nil && analysis.CurrentWeight == nil && analysis.Mood == nil {
		if m := mockMealRe.FindStringSubmatch(strings.TrimSpace(lowered)); m != nil {
			name := strings.TrimSpace(m[2])
			name = strings.TrimSuffix(name, " for")
			if name != "" && !isMealStopWord(name) {
				mention := MealMention{Name: singularizeMock(name)}
				if q := strings.TrimSpace(m[1]); q != "" {
					mention.Quantity = &q
				}
				if mt := strings.TrimSpace(m[3]); mt != "" {
					mealType := mt
					mention.MealType = &mealType
				}
				analysis.MealsEaten = append(analysis.MealsEaten, mention)
			}
		}
	}

	return analysis, nil
}

func isMealStopWord(name string) bool {
	switch name {
	case "breakfast", "lunch", "dinner", "snack", "it", "them", "nothing":
		return true
	}
	return false
}

// singularizeMock trims a plural "s" from multi-quantity mentions so
// "2 chicken breasts" and "chicken breast" hit the same lookup entry.
func singularizeMock(name string) string {
	if strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") && len(name) > 3 {
		return strings.TrimSuffix(name, "s")
	}
	return name
}

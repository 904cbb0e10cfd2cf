package tracker

import (
	"github.com/slimreset/slimcoach/internal/meals"
)

// SummaryResponse is the response for GET /v1/tracker/summary
type SummaryResponse struct {
	Date          string                     `json:"date"`
	Weight        *WeightSummary             `json:"weight"`
	Calories      CaloriesSummary            `json:"calories"`
	Meals         map[string][]meals.MealDTO `json:"meals"`
	Mood          *MoodSummary               `json:"mood"`
	MissingFields []string                   `json:"missing_fields"`
}

// WeightSummary is the day's weigh-in in both units
type WeightSummary struct {
	Kg  float64 `json:"kg"`
	Lbs int     `json:"lbs"`
}

// CaloriesSummary holds the day's calorie totals
type CaloriesSummary struct {
	Consumed *float64 `json:"consumed"`
	Burned   *float64 `json:"burned"`
}

// MoodSummary is the most recent mood note for the day
type MoodSummary struct {
	Note string `json:"note"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

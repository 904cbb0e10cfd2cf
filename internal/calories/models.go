package calories

import (
	"time"

	"github.com/google/uuid"
)

// CalorieDTO is the API response format
type CalorieDTO struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"` // "consumed" or "burned"
	Kcal      float64   `json:"kcal"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertCalorieRequest is the request body for logging calories
type UpsertCalorieRequest struct {
	Kind string  `json:"kind"`
	Kcal float64 `json:"kcal"`
	Date string  `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// CaloriesResponse is the response for listing calorie entries
type CaloriesResponse struct {
	Calories []CalorieDTO `json:"calories"`
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

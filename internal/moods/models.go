package moods

import (
	"time"

	"github.com/google/uuid"
)

// MoodDTO is the API response format
type MoodDTO struct {
	ID        uuid.UUID `json:"id"`
	Note      string    `json:"note"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// LogMoodRequest is the request body for logging a mood
type LogMoodRequest struct {
	Note string `json:"note"`
	Date string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// MoodsResponse is the response for listing moods
type MoodsResponse struct {
	Moods []MoodDTO `json:"moods"`
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

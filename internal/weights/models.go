package weights

import (
	"time"

	"github.com/google/uuid"
)

// Weight units accepted on input
const (
	UnitKg  = "kg"
	UnitLbs = "lbs"
)

// LbsPerKg converts the stored kilogram value into the pounds shown to the user.
const LbsPerKg = 2.20462

// WeightDTO is the API response format. Kg is the canonical stored value,
// Lbs is the rounded display value.
type WeightDTO struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Kg        float64   `json:"kg"`
	Lbs       int       `json:"lbs"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertWeightRequest is the request body for logging a weigh-in
type UpsertWeightRequest struct {
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit"`
	Date   string  `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// WeightsResponse is the response for listing weigh-ins
type WeightsResponse struct {
	Weights []WeightDTO `json:"weights"`
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

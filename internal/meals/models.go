package meals

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/slimreset/slimcoach/internal/storage"
)

// Meal types
const (
	TypeBreakfast = "breakfast"
	TypeLunch     = "lunch"
	TypeDinner    = "dinner"
	TypeSnack     = "snack"
	TypeUnknown   = "unknown"
)

// Valid meal types
var ValidTypes = []string{TypeBreakfast, TypeLunch, TypeDinner, TypeSnack, TypeUnknown}

// MealDTO mirrors the wire format the mobile diary client already consumes.
// Macro amounts are pre-formatted strings ("31.0g", "74mg") and calories is
// a whole-number string.
type MealDTO struct {
	ID          uuid.UUID `json:"id"`
	FoodID      string    `json:"foodId"`
	Label       string    `json:"label"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Unit        string    `json:"unit"`
	Calories    string    `json:"calories"`
	TotalFat    string    `json:"totalFat"`
	SatFat      string    `json:"satFat"`
	Cholesterol string    `json:"cholesterol"`
	Sodium      string    `json:"sodium"`
	Carbs       string    `json:"carbs"`
	Fiber       string    `json:"fiber"`
	Sugars      string    `json:"sugars"`
	Protein     string    `json:"protein"`
	Enriched    bool      `json:"enriched"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogMealRequest is the request body for logging a meal
type LogMealRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	MealType string `json:"meal_type"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// MealsResponse is the response for listing meals
type MealsResponse struct {
	Meals []MealDTO `json:"meals"`
}

// ToDTO converts a stored meal entry into the diary wire format
func ToDTO(e *storage.MealEntry) MealDTO {
	return MealDTO{
		ID:          e.ID,
		FoodID:      e.FoodID,
		Label:       e.Label,
		Type:        e.MealType,
		Amount:      e.Quantity,
		Unit:        e.Unit,
		Calories:    strconv.Itoa(int(math.Round(e.Calories))),
		TotalFat:    formatGrams(e.Fat),
		SatFat:      "0.0g",
		Cholesterol: "0mg",
		Sodium:      formatMilligrams(e.Sodium),
		Carbs:       formatGrams(e.Carbs),
		Fiber:       formatGrams(e.Fiber),
		Sugars:      formatGrams(e.Sugar),
		Protein:     formatGrams(e.Protein),
		Enriched:    e.Enriched,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

func formatGrams(v float64) string {
	return fmt.Sprintf("%.1fg", v)
}

func formatMilligrams(v float64) string {
	return fmt.Sprintf("%dmg", int(math.Round(v)))
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

package meals

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/nutrition"
	"github.com/slimreset/slimcoach/internal/storage"
)

var (
	ErrInvalidDate  = errors.New("invalid date format")
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidType  = errors.New("invalid meal type")
	ErrMissingName  = errors.New("meal name is required")
)

// Service handles meal logging: nutrition enrichment plus persistence.
type Service struct {
	storage storage.MealsStorage
	lookup  nutrition.Lookup
	now     func() time.Time
}

// NewService creates a new meals service
func NewService(store storage.MealsStorage, lookup nutrition.Lookup) *Service {
	return &Service{
		storage: store,
		lookup:  lookup,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Log enriches a meal with nutrition facts and persists it. When the
// nutrition lookup fails the meal is still stored, flagged as unenriched.
func (s *Service) Log(ctx context.Context, userID string, req LogMealRequest) (*MealDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	mealType := strings.ToLower(strings.TrimSpace(req.MealType))
	if mealType == "" {
		mealType = TypeUnknown
	}
	if !isValidType(mealType) {
		return nil, ErrInvalidType
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	quantity := strings.TrimSpace(req.Quantity)
	if quantity == "" {
		quantity = "1"
	}

	entry := s.Enrich(ctx, userID, name, quantity, mealType, date)
	if err := s.storage.InsertMeal(ctx, entry); err != nil {
		return nil, err
	}

	dto := ToDTO(entry)
	return &dto, nil
}

// Enrich builds a meal entry with nutrition facts filled in. The entry is
// not persisted; lookup failures leave it unenriched with the raw name as
// label.
func (s *Service) Enrich(ctx context.Context, userID, name, quantity, mealType, date string) *storage.MealEntry {
	entry := &storage.MealEntry{
		UserID:    userID,
		FoodID:    "0",
		Label:     name,
		MealType:  mealType,
		Quantity:  quantity,
		Unit:      "g",
		Date:      date,
		CreatedAt: s.now(),
	}

	facts, err := s.lookup.Lookup(ctx, name, quantity)
	if err != nil {
		log.Printf("meals: nutrition lookup failed for %q: %v", name, err)
		return entry
	}

	entry.FoodID = facts.FoodID
	entry.Label = facts.Label
	entry.Calories = facts.Calories
	entry.Protein = facts.Protein
	entry.Fat = facts.Fat
	entry.Carbs = facts.Carbs
	entry.Fiber = facts.Fiber
	entry.Sugar = facts.Sugar
	entry.Sodium = facts.Sodium
	entry.Enriched = true
	return entry
}

// List returns meals for a user within a date range
func (s *Service) List(ctx context.Context, userID, from, to string) ([]MealDTO, error) {
	if err := validateDate(from); err != nil {
		return nil, err
	}
	if err := validateDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, ErrInvalidRange
	}

	entries, err := s.storage.ListMeals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]MealDTO, len(entries))
	for i := range entries {
		dtos[i] = ToDTO(&entries[i])
	}
	return dtos, nil
}

func isValidType(t string) bool {
	for _, valid := range ValidTypes {
		if t == valid {
			return true
		}
	}
	return false
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

package tracker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/meals"
	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/weights"
)

var ErrInvalidDate = errors.New("invalid date format")

// Service aggregates one day of health data into a single summary.
type Service struct {
	weightsStorage  storage.WeightsStorage
	mealsStorage    storage.MealsStorage
	caloriesStorage storage.CaloriesStorage
	moodsStorage    storage.MoodsStorage
	now             func() time.Time
}

// NewService creates a new tracker service
func NewService(weightsStorage storage.WeightsStorage, mealsStorage storage.MealsStorage, caloriesStorage storage.CaloriesStorage, moodsStorage storage.MoodsStorage) *Service {
	return &Service{
		weightsStorage:  weightsStorage,
		mealsStorage:    mealsStorage,
		caloriesStorage: caloriesStorage,
		moodsStorage:    moodsStorage,
		now:             time.Now,
	}
}

// GetDaySummary returns the aggregated summary for one date. An empty date
// means today.
func (s *Service) GetDaySummary(ctx context.Context, userID, date string) (*SummaryResponse, error) {
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}

	missingFields := []string{}
	resp := &SummaryResponse{
		Date:  date,
		Meals: map[string][]meals.MealDTO{},
	}

	entry, found, err := s.weightsStorage.GetWeightByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if found {
		resp.Weight = &WeightSummary{Kg: entry.Kg, Lbs: weights.DisplayLbs(entry.Kg)}
	} else {
		missingFields = append(missingFields, "weight")
	}

	calorieRows, err := s.caloriesStorage.ListCalories(ctx, userID, date, date)
	if err != nil {
		return nil, err
	}
	for i := range calorieRows {
		kcal := calorieRows[i].Kcal
		switch calorieRows[i].Kind {
		case storage.CalorieConsumed:
			resp.Calories.Consumed = &kcal
		case storage.CalorieBurned:
			resp.Calories.Burned = &kcal
		}
	}
	if resp.Calories.Consumed == nil {
		missingFields = append(missingFields, "calories_consumed")
	}

	mealRows, err := s.mealsStorage.ListMeals(ctx, userID, date, date)
	if err != nil {
		return nil, err
	}
	loggedTypes := map[string]bool{}
	for i := range mealRows {
		mealType := strings.ToLower(mealRows[i].MealType)
		if mealType == "" {
			mealType = meals.TypeUnknown
		}
		resp.Meals[mealType] = append(resp.Meals[mealType], meals.ToDTO(&mealRows[i]))
		loggedTypes[mealType] = true
	}
	for _, mealType := range []string{meals.TypeBreakfast, meals.TypeLunch, meals.TypeDinner} {
		if !loggedTypes[mealType] {
			missingFields = append(missingFields, mealType)
		}
	}

	moodRows, err := s.moodsStorage.ListMoods(ctx, userID, date, date)
	if err != nil {
		return nil, err
	}
	if len(moodRows) > 0 {
		// rows are ordered by creation, last one wins
		resp.Mood = &MoodSummary{Note: moodRows[len(moodRows)-1].Note}
	} else {
		missingFields = append(missingFields, "mood")
	}

	resp.MissingFields = missingFields
	return resp, nil
}

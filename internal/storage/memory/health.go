package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slimreset/slimcoach/internal/storage"
)

// WeightsMemoryStorage implements storage.WeightsStorage. One entry per
// user+date; upsert replaces.
type WeightsMemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]storage.WeightEntry // key: "userID:date"
}

func NewWeightsMemoryStorage() *WeightsMemoryStorage {
	return &WeightsMemoryStorage{
		entries: make(map[string]storage.WeightEntry),
	}
}

func weightKey(userID, date string) string {
	return strings.TrimSpace(userID) + ":" + date
}

func (s *WeightsMemoryStorage) UpsertWeight(ctx context.Context, entry *storage.WeightEntry) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	key := weightKey(entry.UserID, entry.Date)
	if existing, ok := s.entries[key]; ok {
		// same-day weigh-in replaces, keep the original row id
		entry.ID = existing.ID
	}
	s.entries[key] = *entry
	return nil
}

func (s *WeightsMemoryStorage) ListWeights(ctx context.Context, userID, from, to string) ([]storage.WeightEntry, error) {
	_ = ctx

	userID = strings.TrimSpace(userID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.WeightEntry
	for _, e := range s.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result, nil
}

func (s *WeightsMemoryStorage) GetWeightByDate(ctx context.Context, userID, date string) (*storage.WeightEntry, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[weightKey(userID, date)]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

// MealsMemoryStorage implements storage.MealsStorage.
type MealsMemoryStorage struct {
	mu      sync.RWMutex
	entries []storage.MealEntry
}

func NewMealsMemoryStorage() *MealsMemoryStorage {
	return &MealsMemoryStorage{
		entries: make([]storage.MealEntry, 0),
	}
}

func (s *MealsMemoryStorage) InsertMeal(ctx context.Context, entry *storage.MealEntry) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.UserID = strings.TrimSpace(entry.UserID)

	s.entries = append(s.entries, *entry)
	return nil
}

func (s *MealsMemoryStorage) ListMeals(ctx context.Context, userID, from, to string) ([]storage.MealEntry, error) {
	_ = ctx

	userID = strings.TrimSpace(userID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.MealEntry
	for _, e := range s.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CaloriesMemoryStorage implements storage.CaloriesStorage. One entry per
// user+date+kind; upsert replaces.
type CaloriesMemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]storage.CalorieEntry // key: "userID:date:kind"
}

func NewCaloriesMemoryStorage() *CaloriesMemoryStorage {
	return &CaloriesMemoryStorage{
		entries: make(map[string]storage.CalorieEntry),
	}
}

func calorieKey(userID, date, kind string) string {
	return strings.TrimSpace(userID) + ":" + date + ":" + kind
}

func (s *CaloriesMemoryStorage) UpsertCalorie(ctx context.Context, entry *storage.CalorieEntry) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	key := calorieKey(entry.UserID, entry.Date, entry.Kind)
	if existing, ok := s.entries[key]; ok {
		entry.ID = existing.ID
	}
	s.entries[key] = *entry
	return nil
}

func (s *CaloriesMemoryStorage) ListCalories(ctx context.Context, userID, from, to string) ([]storage.CalorieEntry, error) {
	_ = ctx

	userID = strings.TrimSpace(userID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.CalorieEntry
	for _, e := range s.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date == result[j].Date {
			return result[i].Kind < result[j].Kind
		}
		return result[i].Date < result[j].Date
	})
	return result, nil
}

// MoodsMemoryStorage implements storage.MoodsStorage.
type MoodsMemoryStorage struct {
	mu      sync.RWMutex
	entries []storage.MoodEntry
}

func NewMoodsMemoryStorage() *MoodsMemoryStorage {
	return &MoodsMemoryStorage{
		entries: make([]storage.MoodEntry, 0),
	}
}

func (s *MoodsMemoryStorage) InsertMood(ctx context.Context, entry *storage.MoodEntry) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.UserID = strings.TrimSpace(entry.UserID)

	s.entries = append(s.entries, *entry)
	return nil
}

func (s *MoodsMemoryStorage) ListMoods(ctx context.Context, userID, from, to string) ([]storage.MoodEntry, error) {
	_ = ctx

	userID = strings.TrimSpace(userID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []storage.MoodEntry
	for _, e := range s.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

package calories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/storage"
)

var (
	ErrInvalidDate  = errors.New("invalid date format")
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidKind  = errors.New("kind must be consumed or burned")
	ErrInvalidKcal  = errors.New("kcal must be positive")
)

// Service handles calorie tracking business logic
type Service struct {
	storage storage.CaloriesStorage
	now     func() time.Time
}

// NewService creates a new calories service
func NewService(store storage.CaloriesStorage) *Service {
	return &Service{
		storage: store,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upsert logs a calorie total. A second entry of the same kind on the same
// date replaces the first.
func (s *Service) Upsert(ctx context.Context, userID string, req UpsertCalorieRequest) (*CalorieDTO, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind != storage.CalorieConsumed && kind != storage.CalorieBurned {
		return nil, ErrInvalidKind
	}
	if req.Kcal <= 0 {
		return nil, ErrInvalidKcal
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	entry := &storage.CalorieEntry{
		UserID:    userID,
		Kind:      kind,
		Kcal:      req.Kcal,
		Date:      date,
		CreatedAt: s.now(),
	}
	if err := s.storage.UpsertCalorie(ctx, entry); err != nil {
		return nil, err
	}

	dto := toDTO(entry)
	return &dto, nil
}

// List returns calorie entries for a user within a date range
func (s *Service) List(ctx context.Context, userID, from, to string) ([]CalorieDTO, error) {
	if err := validateDate(from); err != nil {
		return nil, err
	}
	if err := validateDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, ErrInvalidRange
	}

	entries, err := s.storage.ListCalories(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]CalorieDTO, len(entries))
	for i := range entries {
		dtos[i] = toDTO(&entries[i])
	}
	return dtos, nil
}

func toDTO(e *storage.CalorieEntry) CalorieDTO {
	return CalorieDTO{
		ID:        e.ID,
		Kind:      e.Kind,
		Kcal:      e.Kcal,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

package weights

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/storage"
)

var (
	ErrInvalidDate   = errors.New("invalid date format")
	ErrInvalidRange  = errors.New("invalid date range")
	ErrInvalidWeight = errors.New("weight must be positive")
	ErrInvalidUnit   = errors.New("unit must be kg or lbs")
	ErrNotFound      = errors.New("weight entry not found")
)

// Service handles weigh-in business logic
type Service struct {
	storage storage.WeightsStorage
	now     func() time.Time
}

// NewService creates a new weights service
func NewService(store storage.WeightsStorage) *Service {
	return &Service{
		storage: store,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upsert logs a weigh-in. The value is stored in kilograms; a second
// weigh-in on the same date replaces the first.
func (s *Service) Upsert(ctx context.Context, userID string, req UpsertWeightRequest) (*WeightDTO, error) {
	if req.Weight <= 0 {
		return nil, ErrInvalidWeight
	}

	kg, err := ToKg(req.Weight, req.Unit)
	if err != nil {
		return nil, err
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	entry := &storage.WeightEntry{
		UserID:    userID,
		Kg:        kg,
		Date:      date,
		CreatedAt: s.now(),
	}
	if err := s.storage.UpsertWeight(ctx, entry); err != nil {
		return nil, err
	}

	dto := toDTO(entry)
	return &dto, nil
}

// List returns weigh-ins for a user within a date range
func (s *Service) List(ctx context.Context, userID, from, to string) ([]WeightDTO, error) {
	if err := validateDate(from); err != nil {
		return nil, err
	}
	if err := validateDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, ErrInvalidRange
	}

	entries, err := s.storage.ListWeights(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]WeightDTO, len(entries))
	for i := range entries {
		dtos[i] = toDTO(&entries[i])
	}
	return dtos, nil
}

// Latest returns the most recent weigh-in on or before the given date
func (s *Service) Latest(ctx context.Context, userID, date string) (*WeightDTO, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	entries, err := s.storage.ListWeights(ctx, userID, "0000-01-01", date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	dto := toDTO(&entries[len(entries)-1])
	return &dto, nil
}

// ToKg converts an input value into the canonical stored kilograms
func ToKg(value float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case UnitKg, "":
		return value, nil
	case UnitLbs, "lb", "pounds":
		return value / LbsPerKg, nil
	default:
		return 0, ErrInvalidUnit
	}
}

// DisplayLbs rounds the stored kilogram value to whole pounds for display
func DisplayLbs(kg float64) int {
	return int(math.Round(kg * LbsPerKg))
}

func toDTO(e *storage.WeightEntry) WeightDTO {
	return WeightDTO{
		ID:        e.ID,
		Date:      e.Date,
		Kg:        e.Kg,
		Lbs:       DisplayLbs(e.Kg),
		CreatedAt: e.CreatedAt,
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

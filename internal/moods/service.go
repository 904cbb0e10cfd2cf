package moods

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
	ErrMissingNote  = errors.New("mood note is required")
)

// Service handles mood tracking business logic
type Service struct {
	storage storage.MoodsStorage
	now     func() time.Time
}

// NewService creates a new moods service
func NewService(store storage.MoodsStorage) *Service {
	return &Service{
		storage: store,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Log appends a mood entry. Multiple entries per day are kept.
func (s *Service) Log(ctx context.Context, userID string, req LogMoodRequest) (*MoodDTO, error) {
	note := strings.TrimSpace(req.Note)
	if note == "" {
		return nil, ErrMissingNote
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if err := validateDate(date); err != nil {
		return nil, err
	}

	entry := &storage.MoodEntry{
		UserID:    userID,
		Note:      note,
		Date:      date,
		CreatedAt: s.now(),
	}
	if err := s.storage.InsertMood(ctx, entry); err != nil {
		return nil, err
	}

	dto := toDTO(entry)
	return &dto, nil
}

// List returns mood entries for a user within a date range
func (s *Service) List(ctx context.Context, userID, from, to string) ([]MoodDTO, error) {
	if err := validateDate(from); err != nil {
		return nil, err
	}
	if err := validateDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, ErrInvalidRange
	}

	entries, err := s.storage.ListMoods(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dtos := make([]MoodDTO, len(entries))
	for i := range entries {
		dtos[i] = toDTO(&entries[i])
	}
	return dtos, nil
}

func toDTO(e *storage.MoodEntry) MoodDTO {
	return MoodDTO{
		ID:        e.ID,
		Note:      e.Note,
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

package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/slimreset/slimcoach/internal/config"
	"github.com/slimreset/slimcoach/internal/storage"
)

type Service struct {
	storage storage.SettingsStorage
	config  *config.Config
}

func NewService(settingsStorage storage.SettingsStorage, cfg *config.Config) *Service {
	return &Service{
		storage: settingsStorage,
		config:  cfg,
	}
}

func (s *Service) GetOrDefault(ctx context.Context, userID string) (SettingsResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SettingsResponse{}, fmt.Errorf("user_id is required")
	}

	row, found, err := s.storage.GetSettings(ctx, userID)
	if err != nil {
		return SettingsResponse{}, err
	}

	if !found {
		return SettingsResponse{
			Settings:  dtoFromStorage(s.defaults()),
			IsDefault: true,
		}, nil
	}

	return SettingsResponse{
		Settings:  dtoFromStorage(row),
		IsDefault: false,
	}, nil
}

func (s *Service) Upsert(ctx context.Context, userID string, dto SettingsDTO) (SettingsDTO, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SettingsDTO{}, fmt.Errorf("user_id is required")
	}

	if err := dto.Validate(); err != nil {
		return SettingsDTO{}, err
	}

	row, err := s.storage.UpsertSettings(ctx, userID, dtoToStorage(dto))
	if err != nil {
		return SettingsDTO{}, err
	}
	return dtoFromStorage(row), nil
}

func (s *Service) defaults() storage.Settings {
	var tz *string
	if s.config.DefaultTimeZone != "" {
		zone := s.config.DefaultTimeZone
		tz = &zone
	}
	return storage.Settings{
		TimeZone:             tz,
		NotificationsEnabled: true,
	}
}

package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/notifications"
	"github.com/slimreset/slimcoach/internal/storage"
)

type SettingsDTO struct {
	TimeZone             *string  `json:"time_zone,omitempty"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	DisabledWindows      []string `json:"disabled_windows"`
}

type SettingsResponse struct {
	Settings  SettingsDTO `json:"settings"`
	IsDefault bool        `json:"is_default"`
}

func (s SettingsDTO) Validate() error {
	if s.TimeZone != nil && strings.TrimSpace(*s.TimeZone) != "" {
		if _, err := time.LoadLocation(strings.TrimSpace(*s.TimeZone)); err != nil {
			return fmt.Errorf("invalid time_zone")
		}
	}

	for _, key := range s.DisabledWindows {
		if !notifications.ValidWindowKey(key) {
			return fmt.Errorf("unknown notification window %q", key)
		}
	}

	return nil
}

func dtoFromStorage(s storage.Settings) SettingsDTO {
	return SettingsDTO{
		TimeZone:             cloneStringPointer(s.TimeZone),
		NotificationsEnabled: s.NotificationsEnabled,
		DisabledWindows:      cloneWindows(s.DisabledWindows),
	}
}

func dtoToStorage(dto SettingsDTO) storage.Settings {
	return storage.Settings{
		TimeZone:             cloneStringPointer(dto.TimeZone),
		NotificationsEnabled: dto.NotificationsEnabled,
		DisabledWindows:      cloneWindows(dto.DisabledWindows),
	}
}

func cloneStringPointer(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

func cloneWindows(v []string) []string {
	if v == nil {
		return nil
	}
	copied := make([]string, len(v))
	copy(copied, v)
	return copied
}

package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/slimreset/slimcoach/internal/storage"
)

type SettingsMemoryStorage struct {
	mu       sync.RWMutex
	settings map[string]storage.Settings
}

func NewSettingsMemoryStorage() *SettingsMemoryStorage {
	return &SettingsMemoryStorage{
		settings: make(map[string]storage.Settings),
	}
}

func (s *SettingsMemoryStorage) GetSettings(ctx context.Context, userID string) (storage.Settings, bool, error) {
	_ = ctx
	key := strings.TrimSpace(userID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.settings[key]
	if !ok {
		return storage.Settings{}, false, nil
	}
	return cloneSettings(row), true, nil
}

func (s *SettingsMemoryStorage) UpsertSettings(ctx context.Context, userID string, in storage.Settings) (storage.Settings, error) {
	_ = ctx
	key := strings.TrimSpace(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneSettings(in)
	s.settings[key] = stored
	return cloneSettings(stored), nil
}

// cloneSettings copies the pointer and slice fields so callers cannot
// mutate stored state after the fact.
func cloneSettings(in storage.Settings) storage.Settings {
	out := storage.Settings{
		NotificationsEnabled: in.NotificationsEnabled,
	}
	if in.TimeZone != nil {
		tz := *in.TimeZone
		out.TimeZone = &tz
	}
	if in.DisabledWindows != nil {
		out.DisabledWindows = append([]string(nil), in.DisabledWindows...)
	}
	return out
}

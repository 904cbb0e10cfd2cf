package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/slimreset/slimcoach/internal/storage"
)

type SettingsSQLiteStorage struct {
	db *sql.DB
}

func (s *SettingsSQLiteStorage) GetSettings(ctx context.Context, userID string) (storage.Settings, bool, error) {
	query := `SELECT time_zone, notifications_enabled, disabled_windows FROM user_settings WHERE user_id = ?`

	var out storage.Settings
	var tz sql.NullString
	var windows string
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(userID)).Scan(&tz, &out.NotificationsEnabled, &windows)
	if err == sql.ErrNoRows {
		return storage.Settings{}, false, nil
	}
	if err != nil {
		return storage.Settings{}, false, fmt.Errorf("get settings: %w", err)
	}
	if tz.Valid {
		out.TimeZone = &tz.String
	}
	out.DisabledWindows = splitWindows(windows)
	return out, true, nil
}

func (s *SettingsSQLiteStorage) UpsertSettings(ctx context.Context, userID string, in storage.Settings) (storage.Settings, error) {
	query := `INSERT INTO user_settings (user_id, time_zone, notifications_enabled, disabled_windows)
              VALUES (?, ?, ?, ?)
              ON CONFLICT (user_id) DO UPDATE SET
                  time_zone = excluded.time_zone,
                  notifications_enabled = excluded.notifications_enabled,
                  disabled_windows = excluded.disabled_windows`

	var tz sql.NullString
	if in.TimeZone != nil {
		tz = sql.NullString{String: *in.TimeZone, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		strings.TrimSpace(userID), tz, in.NotificationsEnabled, strings.Join(in.DisabledWindows, ","))
	if err != nil {
		return storage.Settings{}, fmt.Errorf("upsert settings: %w", err)
	}
	return in, nil
}

func splitWindows(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

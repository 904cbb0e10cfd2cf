package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slimreset/slimcoach/internal/storage"
)

type PostgresSettingsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsStorage(pool *pgxpool.Pool) *PostgresSettingsStorage {
	return &PostgresSettingsStorage{pool: pool}
}

func (s *PostgresSettingsStorage) GetSettings(ctx context.Context, userID string) (storage.Settings, bool, error) {
	userID = strings.TrimSpace(userID)

	const query = `
		SELECT time_zone, notifications_enabled, disabled_windows
		FROM user_settings
		WHERE user_id = $1
	`

	var out storage.Settings
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&out.TimeZone,
		&out.NotificationsEnabled,
		&out.DisabledWindows,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Settings{}, false, nil
	}
	if err != nil {
		return storage.Settings{}, false, err
	}
	return out, true, nil
}

func (s *PostgresSettingsStorage) UpsertSettings(ctx context.Context, userID string, in storage.Settings) (storage.Settings, error) {
	userID = strings.TrimSpace(userID)

	const query = `
		INSERT INTO user_settings (user_id, time_zone, notifications_enabled, disabled_windows)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			time_zone = EXCLUDED.time_zone,
			notifications_enabled = EXCLUDED.notifications_enabled,
			disabled_windows = EXCLUDED.disabled_windows
	`

	windows := in.DisabledWindows
	if windows == nil {
		windows = []string{}
	}
	_, err := s.pool.Exec(ctx, query, userID, in.TimeZone, in.NotificationsEnabled, windows)
	if err != nil {
		return storage.Settings{}, err
	}
	return in, nil
}

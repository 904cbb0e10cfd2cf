package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slimreset/slimcoach/internal/storage"
)

type PostgresChatStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresChatStorage(pool *pgxpool.Pool) *PostgresChatStorage {
	return &PostgresChatStorage{pool: pool}
}

func (s *PostgresChatStorage) InsertMessage(ctx context.Context, userID, role, content string) (storage.ChatMessage, error) {
	msg := storage.ChatMessage{
		ID:        uuid.New(),
		UserID:    strings.TrimSpace(userID),
		Role:      strings.TrimSpace(role),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	const query = `
		INSERT INTO chat_messages (id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		msg.ID,
		msg.UserID,
		msg.Role,
		msg.Content,
		msg.CreatedAt,
	)
	if err != nil {
		return storage.ChatMessage{}, err
	}
	return msg, nil
}

func (s *PostgresChatStorage) ListMessages(ctx context.Context, userID string, limit int, before *time.Time) ([]storage.ChatMessage, *time.Time, error) {
	userID = strings.TrimSpace(userID)
	if limit <= 0 {
		limit = 50
	}
	queryLimit := limit + 1

	const query = `
		SELECT id, user_id, role, content, created_at
		FROM (
			SELECT id, user_id, role, content, created_at
			FROM chat_messages
			WHERE user_id = $1
			  AND ($2::timestamptz IS NULL OR created_at < $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		) latest
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID, before, queryLimit)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	result := make([]storage.ChatMessage, 0, queryLimit)
	for rows.Next() {
		var msg storage.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, nil, err
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var cursor *time.Time
	if len(result) > limit {
		result = result[1:]
		t := result[0].CreatedAt
		cursor = &t
	}
	return result, cursor, nil
}

func (s *PostgresChatStorage) ClearMessages(ctx context.Context, userID string) error {
	const query = `DELETE FROM chat_messages WHERE user_id = $1`

	_, err := s.pool.Exec(ctx, query, strings.TrimSpace(userID))
	return err
}

func (s *PostgresChatStorage) GetSessionState(ctx context.Context, userID string) (storage.SessionState, bool, error) {
	const query = `
		SELECT user_id, awaiting, pending_name, pending_meal_type, original_input, updated_at
		FROM session_states
		WHERE user_id = $1
	`

	var st storage.SessionState
	err := s.pool.QueryRow(ctx, query, strings.TrimSpace(userID)).Scan(
		&st.UserID,
		&st.Awaiting,
		&st.PendingName,
		&st.PendingMealType,
		&st.OriginalInput,
		&st.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.SessionState{}, false, nil
	}
	if err != nil {
		return storage.SessionState{}, false, err
	}
	return st, true, nil
}

func (s *PostgresChatStorage) PutSessionState(ctx context.Context, userID string, state storage.SessionState) error {
	const query = `
		INSERT INTO session_states (user_id, awaiting, pending_name, pending_meal_type, original_input, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			awaiting = EXCLUDED.awaiting,
			pending_name = EXCLUDED.pending_name,
			pending_meal_type = EXCLUDED.pending_meal_type,
			original_input = EXCLUDED.original_input,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		strings.TrimSpace(userID),
		state.Awaiting,
		state.PendingName,
		state.PendingMealType,
		state.OriginalInput,
		time.Now().UTC(),
	)
	return err
}

func (s *PostgresChatStorage) ClearSessionState(ctx context.Context, userID string) error {
	const query = `DELETE FROM session_states WHERE user_id = $1`

	_, err := s.pool.Exec(ctx, query, strings.TrimSpace(userID))
	return err
}

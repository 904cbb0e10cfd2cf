package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slimreset/slimcoach/internal/storage"
)

type ChatSQLiteStorage struct {
	db *sql.DB
}

func (s *ChatSQLiteStorage) InsertMessage(ctx context.Context, userID, role, content string) (storage.ChatMessage, error) {
	msg := storage.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO chat_messages (id, user_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, msg.ID.String(), msg.UserID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return storage.ChatMessage{}, fmt.Errorf("insert chat message: %w", err)
	}
	return msg, nil
}

func (s *ChatSQLiteStorage) ListMessages(ctx context.Context, userID string, limit int, before *time.Time) ([]storage.ChatMessage, *time.Time, error) {
	if limit <= 0 {
		limit = 50
	}

	// Fetch the newest page descending, then reverse to chronological order.
	query := `SELECT id, user_id, role, content, created_at FROM chat_messages WHERE user_id = ?`
	args := []interface{}{userID}
	if before != nil {
		query += ` AND created_at < ?`
		args = append(args, before.UTC())
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var page []storage.ChatMessage
	for rows.Next() {
		var m storage.ChatMessage
		var id string
		if err := rows.Scan(&id, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("scan chat message: %w", err)
		}
		m.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, nil, fmt.Errorf("parse chat message id: %w", err)
		}
		page = append(page, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("list chat messages: %w", err)
	}

	hasMore := len(page) > limit
	if hasMore {
		page = page[:limit]
	}

	// Reverse into chronological order.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	var cursor *time.Time
	if hasMore && len(page) > 0 {
		t := page[0].CreatedAt
		cursor = &t
	}
	return page, cursor, nil
}

func (s *ChatSQLiteStorage) ClearMessages(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear chat messages: %w", err)
	}
	return nil
}

func (s *ChatSQLiteStorage) GetSessionState(ctx context.Context, userID string) (storage.SessionState, bool, error) {
	query := `SELECT user_id, awaiting, pending_name, pending_meal_type, original_input, updated_at
              FROM session_states WHERE user_id = ?`

	var st storage.SessionState
	var mealType sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&st.UserID, &st.Awaiting, &st.PendingName, &mealType, &st.OriginalInput, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return storage.SessionState{}, false, nil
	}
	if err != nil {
		return storage.SessionState{}, false, fmt.Errorf("get session state: %w", err)
	}
	if mealType.Valid {
		st.PendingMealType = &mealType.String
	}
	return st, true, nil
}

func (s *ChatSQLiteStorage) PutSessionState(ctx context.Context, userID string, state storage.SessionState) error {
	query := `INSERT INTO session_states (user_id, awaiting, pending_name, pending_meal_type, original_input, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)
              ON CONFLICT (user_id) DO UPDATE SET
                  awaiting = excluded.awaiting,
                  pending_name = excluded.pending_name,
                  pending_meal_type = excluded.pending_meal_type,
                  original_input = excluded.original_input,
                  updated_at = excluded.updated_at`

	var mealType sql.NullString
	if state.PendingMealType != nil {
		mealType = sql.NullString{String: *state.PendingMealType, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		userID, state.Awaiting, state.PendingName, mealType, state.OriginalInput, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put session state: %w", err)
	}
	return nil
}

func (s *ChatSQLiteStorage) ClearSessionState(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_states WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear session state: %w", err)
	}
	return nil
}

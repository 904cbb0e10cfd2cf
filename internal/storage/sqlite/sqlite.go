package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slimreset/slimcoach/internal/storage"
)

// SQLiteStorage is the embedded single-file backend. It keeps the same
// composition shape as the Postgres backend so the server can swap them.
type SQLiteStorage struct {
	db        *sql.DB
	chat      *ChatSQLiteStorage
	weights   *WeightsSQLiteStorage
	meals     *MealsSQLiteStorage
	calories  *CaloriesSQLiteStorage
	moods     *MoodsSQLiteStorage
	settings  *SettingsSQLiteStorage
	documents *DocumentsSQLiteStorage
	reports   *ReportsSQLiteStorage
}

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// modernc sqlite is not safe for concurrent writers on one connection
	// pool without this.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s.chat = &ChatSQLiteStorage{db: db}
	s.weights = &WeightsSQLiteStorage{db: db}
	s.meals = &MealsSQLiteStorage{db: db}
	s.calories = &CaloriesSQLiteStorage{db: db}
	s.moods = &MoodsSQLiteStorage{db: db}
	s.settings = &SettingsSQLiteStorage{db: db}
	s.documents = &DocumentsSQLiteStorage{db: db}
	s.reports = &ReportsSQLiteStorage{db: db}

	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS chat_messages (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        role TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS session_states (
        user_id TEXT PRIMARY KEY,
        awaiting INTEGER NOT NULL,
        pending_name TEXT NOT NULL,
        pending_meal_type TEXT,
        original_input TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS weight_entries (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        kg REAL NOT NULL,
        date TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        UNIQUE (user_id, date)
    );

    CREATE TABLE IF NOT EXISTS meal_entries (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        food_id TEXT NOT NULL,
        label TEXT NOT NULL,
        meal_type TEXT NOT NULL,
        quantity TEXT NOT NULL,
        unit TEXT NOT NULL,
        calories REAL NOT NULL,
        protein REAL NOT NULL,
        fat REAL NOT NULL,
        carbs REAL NOT NULL,
        fiber REAL NOT NULL,
        sugar REAL NOT NULL,
        sodium REAL NOT NULL,
        enriched INTEGER NOT NULL,
        date TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS calorie_entries (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        kind TEXT NOT NULL,
        kcal REAL NOT NULL,
        date TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        UNIQUE (user_id, date, kind)
    );

    CREATE TABLE IF NOT EXISTS mood_entries (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        note TEXT NOT NULL,
        date TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS user_settings (
        user_id TEXT PRIMARY KEY,
        time_zone TEXT,
        notifications_enabled INTEGER NOT NULL,
        disabled_windows TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS documents (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        title TEXT NOT NULL,
        filename TEXT NOT NULL,
        content_type TEXT NOT NULL,
        size_bytes INTEGER NOT NULL,
        object_key TEXT,
        text TEXT NOT NULL,
        blob_data BLOB,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS reports (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        format TEXT NOT NULL,
        from_date TEXT NOT NULL,
        to_date TEXT NOT NULL,
        object_key TEXT,
        size_bytes INTEGER NOT NULL,
        status TEXT NOT NULL,
        error TEXT,
        data BLOB,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created ON chat_messages(user_id, created_at);
    CREATE INDEX IF NOT EXISTS idx_weight_entries_user_date ON weight_entries(user_id, date);
    CREATE INDEX IF NOT EXISTS idx_meal_entries_user_date ON meal_entries(user_id, date);
    CREATE INDEX IF NOT EXISTS idx_calorie_entries_user_date ON calorie_entries(user_id, date);
    CREATE INDEX IF NOT EXISTS idx_mood_entries_user_date ON mood_entries(user_id, date);
    CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id);
    CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) EnsureUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("empty user id")
	}

	query := `INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetUser(ctx context.Context, userID string) (*storage.User, bool, error) {
	query := `SELECT id, created_at FROM users WHERE id = ?`

	var u storage.User
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(userID)).Scan(&u.ID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get user: %w", err)
	}
	return &u, true, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// GetChatStorage returns the chat storage.
func (s *SQLiteStorage) GetChatStorage() *ChatSQLiteStorage {
	return s.chat
}

// GetWeightsStorage returns the weights storage.
func (s *SQLiteStorage) GetWeightsStorage() *WeightsSQLiteStorage {
	return s.weights
}

// GetMealsStorage returns the meals storage.
func (s *SQLiteStorage) GetMealsStorage() *MealsSQLiteStorage {
	return s.meals
}

// GetCaloriesStorage returns the calories storage.
func (s *SQLiteStorage) GetCaloriesStorage() *CaloriesSQLiteStorage {
	return s.calories
}

// GetMoodsStorage returns the moods storage.
func (s *SQLiteStorage) GetMoodsStorage() *MoodsSQLiteStorage {
	return s.moods
}

// GetSettingsStorage returns the settings storage.
func (s *SQLiteStorage) GetSettingsStorage() *SettingsSQLiteStorage {
	return s.settings
}

// GetDocumentsStorage returns the documents storage.
func (s *SQLiteStorage) GetDocumentsStorage() *DocumentsSQLiteStorage {
	return s.documents
}

// GetReportsStorage returns the reports storage.
func (s *SQLiteStorage) GetReportsStorage() *ReportsSQLiteStorage {
	return s.reports
}

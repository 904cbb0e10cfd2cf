package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slimreset/slimcoach/internal/storage"
)

type WeightsSQLiteStorage struct {
	db *sql.DB
}

func (s *WeightsSQLiteStorage) UpsertWeight(ctx context.Context, entry *storage.WeightEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	// Same-day weigh-in replaces the value but keeps the original row id.
	query := `INSERT INTO weight_entries (id, user_id, kg, date, created_at)
              VALUES (?, ?, ?, ?, ?)
              ON CONFLICT (user_id, date) DO UPDATE SET kg = excluded.kg`
	if _, err := s.db.ExecContext(ctx, query,
		entry.ID.String(), entry.UserID, entry.Kg, entry.Date, entry.CreatedAt); err != nil {
		return fmt.Errorf("upsert weight: %w", err)
	}
	return nil
}

func (s *WeightsSQLiteStorage) ListWeights(ctx context.Context, userID, from, to string) ([]storage.WeightEntry, error) {
	query := `SELECT id, user_id, kg, date, created_at FROM weight_entries
              WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	defer rows.Close()

	var out []storage.WeightEntry
	for rows.Next() {
		var e storage.WeightEntry
		var id string
		if err := rows.Scan(&id, &e.UserID, &e.Kg, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse weight id: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *WeightsSQLiteStorage) GetWeightByDate(ctx context.Context, userID, date string) (*storage.WeightEntry, bool, error) {
	query := `SELECT id, user_id, kg, date, created_at FROM weight_entries
              WHERE user_id = ? AND date = ?`

	var e storage.WeightEntry
	var id string
	err := s.db.QueryRowContext(ctx, query, userID, date).Scan(&id, &e.UserID, &e.Kg, &e.Date, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get weight: %w", err)
	}
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, false, fmt.Errorf("parse weight id: %w", err)
	}
	return &e, true, nil
}

type MealsSQLiteStorage struct {
	db *sql.DB
}

func (s *MealsSQLiteStorage) InsertMeal(ctx context.Context, entry *storage.MealEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO meal_entries
              (id, user_id, food_id, label, meal_type, quantity, unit,
               calories, protein, fat, carbs, fiber, sugar, sodium, enriched, date, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query,
		entry.ID.String(), entry.UserID, entry.FoodID, entry.Label, entry.MealType,
		entry.Quantity, entry.Unit, entry.Calories, entry.Protein, entry.Fat,
		entry.Carbs, entry.Fiber, entry.Sugar, entry.Sodium, entry.Enriched,
		entry.Date, entry.CreatedAt); err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (s *MealsSQLiteStorage) ListMeals(ctx context.Context, userID, from, to string) ([]storage.MealEntry, error) {
	query := `SELECT id, user_id, food_id, label, meal_type, quantity, unit,
                     calories, protein, fat, carbs, fiber, sugar, sodium, enriched, date, created_at
              FROM meal_entries
              WHERE user_id = ? AND date >= ? AND date <= ?
              ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var out []storage.MealEntry
	for rows.Next() {
		var e storage.MealEntry
		var id string
		if err := rows.Scan(&id, &e.UserID, &e.FoodID, &e.Label, &e.MealType,
			&e.Quantity, &e.Unit, &e.Calories, &e.Protein, &e.Fat,
			&e.Carbs, &e.Fiber, &e.Sugar, &e.Sodium, &e.Enriched,
			&e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse meal id: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type CaloriesSQLiteStorage struct {
	db *sql.DB
}

func (s *CaloriesSQLiteStorage) UpsertCalorie(ctx context.Context, entry *storage.CalorieEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO calorie_entries (id, user_id, kind, kcal, date, created_at)
              VALUES (?, ?, ?, ?, ?, ?)
              ON CONFLICT (user_id, date, kind) DO UPDATE SET kcal = excluded.kcal`
	if _, err := s.db.ExecContext(ctx, query,
		entry.ID.String(), entry.UserID, entry.Kind, entry.Kcal, entry.Date, entry.CreatedAt); err != nil {
		return fmt.Errorf("upsert calorie: %w", err)
	}
	return nil
}

func (s *CaloriesSQLiteStorage) ListCalories(ctx context.Context, userID, from, to string) ([]storage.CalorieEntry, error) {
	query := `SELECT id, user_id, kind, kcal, date, created_at FROM calorie_entries
              WHERE user_id = ? AND date >= ? AND date <= ?
              ORDER BY date ASC, kind ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calories: %w", err)
	}
	defer rows.Close()

	var out []storage.CalorieEntry
	for rows.Next() {
		var e storage.CalorieEntry
		var id string
		if err := rows.Scan(&id, &e.UserID, &e.Kind, &e.Kcal, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan calorie: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse calorie id: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type MoodsSQLiteStorage struct {
	db *sql.DB
}

func (s *MoodsSQLiteStorage) InsertMood(ctx context.Context, entry *storage.MoodEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO mood_entries (id, user_id, note, date, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query,
		entry.ID.String(), entry.UserID, entry.Note, entry.Date, entry.CreatedAt); err != nil {
		return fmt.Errorf("insert mood: %w", err)
	}
	return nil
}

func (s *MoodsSQLiteStorage) ListMoods(ctx context.Context, userID, from, to string) ([]storage.MoodEntry, error) {
	query := `SELECT id, user_id, note, date, created_at FROM mood_entries
              WHERE user_id = ? AND date >= ? AND date <= ?
              ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	defer rows.Close()

	var out []storage.MoodEntry
	for rows.Next() {
		var e storage.MoodEntry
		var id string
		if err := rows.Scan(&id, &e.UserID, &e.Note, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse mood id: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

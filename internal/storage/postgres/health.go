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

type PostgresWeightsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresWeightsStorage(pool *pgxpool.Pool) *PostgresWeightsStorage {
	return &PostgresWeightsStorage{pool: pool}
}

func (s *PostgresWeightsStorage) UpsertWeight(ctx context.Context, entry *storage.WeightEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	// Same-day weigh-in replaces the value but keeps the original row id.
	const query = `
		INSERT INTO weight_entries (id, user_id, kg, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE SET kg = EXCLUDED.kg
	`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		strings.TrimSpace(entry.UserID),
		entry.Kg,
		entry.Date,
		entry.CreatedAt,
	)
	return err
}

func (s *PostgresWeightsStorage) ListWeights(ctx context.Context, userID, from, to string) ([]storage.WeightEntry, error) {
	const query = `
		SELECT id, user_id, kg, date, created_at
		FROM weight_entries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(userID), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []storage.WeightEntry{}
	for rows.Next() {
		var e storage.WeightEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kg, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresWeightsStorage) GetWeightByDate(ctx context.Context, userID, date string) (*storage.WeightEntry, bool, error) {
	const query = `
		SELECT id, user_id, kg, date, created_at
		FROM weight_entries
		WHERE user_id = $1 AND date = $2
	`

	var e storage.WeightEntry
	err := s.pool.QueryRow(ctx, query, strings.TrimSpace(userID), date).Scan(
		&e.ID, &e.UserID, &e.Kg, &e.Date, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &e, true, nil
}

type PostgresMealsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresMealsStorage(pool *pgxpool.Pool) *PostgresMealsStorage {
	return &PostgresMealsStorage{pool: pool}
}

func (s *PostgresMealsStorage) InsertMeal(ctx context.Context, entry *storage.MealEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO meal_entries
			(id, user_id, food_id, label, meal_type, quantity, unit,
			 calories, protein, fat, carbs, fiber, sugar, sodium, enriched, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		strings.TrimSpace(entry.UserID),
		entry.FoodID,
		entry.Label,
		entry.MealType,
		entry.Quantity,
		entry.Unit,
		entry.Calories,
		entry.Protein,
		entry.Fat,
		entry.Carbs,
		entry.Fiber,
		entry.Sugar,
		entry.Sodium,
		entry.Enriched,
		entry.Date,
		entry.CreatedAt,
	)
	return err
}

func (s *PostgresMealsStorage) ListMeals(ctx context.Context, userID, from, to string) ([]storage.MealEntry, error) {
	const query = `
		SELECT id, user_id, food_id, label, meal_type, quantity, unit,
		       calories, protein, fat, carbs, fiber, sugar, sodium, enriched, date, created_at
		FROM meal_entries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(userID), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []storage.MealEntry{}
	for rows.Next() {
		var e storage.MealEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.FoodID, &e.Label, &e.MealType,
			&e.Quantity, &e.Unit, &e.Calories, &e.Protein, &e.Fat,
			&e.Carbs, &e.Fiber, &e.Sugar, &e.Sodium, &e.Enriched,
			&e.Date, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type PostgresCaloriesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresCaloriesStorage(pool *pgxpool.Pool) *PostgresCaloriesStorage {
	return &PostgresCaloriesStorage{pool: pool}
}

func (s *PostgresCaloriesStorage) UpsertCalorie(ctx context.Context, entry *storage.CalorieEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO calorie_entries (id, user_id, kind, kcal, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date, kind) DO UPDATE SET kcal = EXCLUDED.kcal
	`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		strings.TrimSpace(entry.UserID),
		entry.Kind,
		entry.Kcal,
		entry.Date,
		entry.CreatedAt,
	)
	return err
}

func (s *PostgresCaloriesStorage) ListCalories(ctx context.Context, userID, from, to string) ([]storage.CalorieEntry, error) {
	const query = `
		SELECT id, user_id, kind, kcal, date, created_at
		FROM calorie_entries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, kind ASC
	`

	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(userID), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []storage.CalorieEntry{}
	for rows.Next() {
		var e storage.CalorieEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Kcal, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type PostgresMoodsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresMoodsStorage(pool *pgxpool.Pool) *PostgresMoodsStorage {
	return &PostgresMoodsStorage{pool: pool}
}

func (s *PostgresMoodsStorage) InsertMood(ctx context.Context, entry *storage.MoodEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO mood_entries (id, user_id, note, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		strings.TrimSpace(entry.UserID),
		entry.Note,
		entry.Date,
		entry.CreatedAt,
	)
	return err
}

func (s *PostgresMoodsStorage) ListMoods(ctx context.Context, userID, from, to string) ([]storage.MoodEntry, error) {
	const query = `
		SELECT id, user_id, note, date, created_at
		FROM mood_entries
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, strings.TrimSpace(userID), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []storage.MoodEntry{}
	for rows.Next() {
		var e storage.MoodEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Note, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

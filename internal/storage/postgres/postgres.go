package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slimreset/slimcoach/internal/storage"
)

var (
	ErrNotFound = errors.New("not found")
)

// PostgresStorage is the pgx implementation of every storage interface.
type PostgresStorage struct {
	pool      *pgxpool.Pool
	chat      *PostgresChatStorage
	weights   *PostgresWeightsStorage
	meals     *PostgresMealsStorage
	calories  *PostgresCaloriesStorage
	moods     *PostgresMoodsStorage
	settings  *PostgresSettingsStorage
	documents *PostgresDocumentsStorage
	reports   *PostgresReportsStorage
}

// New connects to the database and ensures the default user exists.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	ps := &PostgresStorage{
		pool:      pool,
		chat:      NewPostgresChatStorage(pool),
		weights:   NewPostgresWeightsStorage(pool),
		meals:     NewPostgresMealsStorage(pool),
		calories:  NewPostgresCaloriesStorage(pool),
		moods:     NewPostgresMoodsStorage(pool),
		settings:  NewPostgresSettingsStorage(pool),
		documents: NewPostgresDocumentsStorage(pool),
		reports:   NewPostgresReportsStorage(pool),
	}

	// The server works without auth out of the box.
	if err := ps.EnsureUser(ctx, "default"); err != nil {
		return nil, err
	}

	return ps, nil
}

func (p *PostgresStorage) EnsureUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrNotFound
	}

	const query = `
		INSERT INTO users (id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query, userID, time.Now().UTC())
	return err
}

func (p *PostgresStorage) GetUser(ctx context.Context, userID string) (*storage.User, bool, error) {
	const query = `SELECT id, created_at FROM users WHERE id = $1`

	var u storage.User
	err := p.pool.QueryRow(ctx, query, strings.TrimSpace(userID)).Scan(&u.ID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetChatStorage returns the chat storage.
func (p *PostgresStorage) GetChatStorage() *PostgresChatStorage {
	return p.chat
}

// GetWeightsStorage returns the weights storage.
func (p *PostgresStorage) GetWeightsStorage() *PostgresWeightsStorage {
	return p.weights
}

// GetMealsStorage returns the meals storage.
func (p *PostgresStorage) GetMealsStorage() *PostgresMealsStorage {
	return p.meals
}

// GetCaloriesStorage returns the calories storage.
func (p *PostgresStorage) GetCaloriesStorage() *PostgresCaloriesStorage {
	return p.calories
}

// GetMoodsStorage returns the moods storage.
func (p *PostgresStorage) GetMoodsStorage() *PostgresMoodsStorage {
	return p.moods
}

// GetSettingsStorage returns the settings storage.
func (p *PostgresStorage) GetSettingsStorage() *PostgresSettingsStorage {
	return p.settings
}

// GetDocumentsStorage returns the documents storage.
func (p *PostgresStorage) GetDocumentsStorage() *PostgresDocumentsStorage {
	return p.documents
}

// GetReportsStorage returns the reports storage.
func (p *PostgresStorage) GetReportsStorage() *PostgresReportsStorage {
	return p.reports
}

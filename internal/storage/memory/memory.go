package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/slimreset/slimcoach/internal/storage"
)

var (
	ErrNotFound = errors.New("not found")
)

// MemoryStorage is the in-memory implementation of every storage interface.
// Used in tests and as the fallback when neither Postgres nor SQLite is
// configured.
type MemoryStorage struct {
	mu        sync.RWMutex
	users     map[string]storage.User
	chat      *ChatMemoryStorage
	weights   *WeightsMemoryStorage
	meals     *MealsMemoryStorage
	calories  *CaloriesMemoryStorage
	moods     *MoodsMemoryStorage
	settings  *SettingsMemoryStorage
	documents *DocumentsMemoryStorage
	reports   *ReportsMemoryStorage
}

// New creates a MemoryStorage with the "default" user pre-provisioned, so the
// server works without auth out of the box.
func New() *MemoryStorage {
	m := &MemoryStorage{
		users:     make(map[string]storage.User),
		chat:      NewChatMemoryStorage(),
		weights:   NewWeightsMemoryStorage(),
		meals:     NewMealsMemoryStorage(),
		calories:  NewCaloriesMemoryStorage(),
		moods:     NewMoodsMemoryStorage(),
		settings:  NewSettingsMemoryStorage(),
		documents: NewDocumentsMemoryStorage(),
		reports:   NewReportsMemoryStorage(),
	}
	m.users["default"] = storage.User{ID: "default", CreatedAt: time.Now()}
	return m
}

func (m *MemoryStorage) EnsureUser(ctx context.Context, userID string) error {
	_ = ctx
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		m.users[userID] = storage.User{ID: userID, CreatedAt: time.Now()}
	}
	return nil
}

func (m *MemoryStorage) GetUser(ctx context.Context, userID string) (*storage.User, bool, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[strings.TrimSpace(userID)]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (m *MemoryStorage) Close() error {
	// no-op for memory
	return nil
}

// GetChatStorage returns the chat storage.
func (m *MemoryStorage) GetChatStorage() *ChatMemoryStorage {
	return m.chat
}

// GetWeightsStorage returns the weights storage.
func (m *MemoryStorage) GetWeightsStorage() *WeightsMemoryStorage {
	return m.weights
}

// GetMealsStorage returns the meals storage.
func (m *MemoryStorage) GetMealsStorage() *MealsMemoryStorage {
	return m.meals
}

// GetCaloriesStorage returns the calories storage.
func (m *MemoryStorage) GetCaloriesStorage() *CaloriesMemoryStorage {
	return m.calories
}

// GetMoodsStorage returns the moods storage.
func (m *MemoryStorage) GetMoodsStorage() *MoodsMemoryStorage {
	return m.moods
}

// GetSettingsStorage returns the settings storage.
func (m *MemoryStorage) GetSettingsStorage() *SettingsMemoryStorage {
	return m.settings
}

// GetDocumentsStorage returns the documents storage.
func (m *MemoryStorage) GetDocumentsStorage() *DocumentsMemoryStorage {
	return m.documents
}

// GetReportsStorage returns the reports storage.
func (m *MemoryStorage) GetReportsStorage() *ReportsMemoryStorage {
	return m.reports
}

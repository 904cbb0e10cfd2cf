package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. ID is the JWT subject; all data rows
// hang off it.
type User struct {
	ID        string
	CreatedAt time.Time
}

// UsersStorage manages user records.
type UsersStorage interface {
	// EnsureUser creates the user row if it does not exist yet.
	EnsureUser(ctx context.Context, userID string) error

	// GetUser returns the user by id.
	GetUser(ctx context.Context, userID string) (*User, bool, error)

	// Close closes the underlying connection (no-op for memory).
	Close() error
}

// ChatMessage is one transcript entry. Append-only, immutable once created.
type ChatMessage struct {
	ID        uuid.UUID
	UserID    string
	Role      string // "user" | "assistant" | "system"
	Content   string
	CreatedAt time.Time
}

// SessionState is the per-user conversation state machine row. Awaiting is
// true while a quantity clarification for PendingName is outstanding.
type SessionState struct {
	UserID          string
	Awaiting        bool
	PendingName     string
	PendingMealType *string
	OriginalInput   string
	UpdatedAt       time.Time
}

// ChatStorage persists the transcript and the conversation session state.
type ChatStorage interface {
	// InsertMessage appends one message to the transcript.
	InsertMessage(ctx context.Context, userID, role, content string) (ChatMessage, error)

	// ListMessages returns up to limit messages in chronological order.
	// before filters to messages created strictly before it; the returned
	// cursor points at the oldest message when more remain.
	ListMessages(ctx context.Context, userID string, limit int, before *time.Time) ([]ChatMessage, *time.Time, error)

	// ClearMessages drops the whole transcript (session reset).
	ClearMessages(ctx context.Context, userID string) error

	// GetSessionState returns the session state row if one exists.
	GetSessionState(ctx context.Context, userID string) (SessionState, bool, error)

	// PutSessionState upserts the session state row.
	PutSessionState(ctx context.Context, userID string, state SessionState) error

	// ClearSessionState removes the session state row.
	ClearSessionState(ctx context.Context, userID string) error
}

// WeightEntry is one daily weigh-in. Kilograms are canonical; at most one
// entry per user per local date (same-day logging replaces).
type WeightEntry struct {
	ID        uuid.UUID
	UserID    string
	Kg        float64
	Date      string // YYYY-MM-DD, user-local
	CreatedAt time.Time
}

// WeightsStorage persists weigh-ins.
type WeightsStorage interface {
	// UpsertWeight stores the entry, replacing any existing entry for the
	// same user and date.
	UpsertWeight(ctx context.Context, entry *WeightEntry) error

	// ListWeights returns entries in [from, to] ordered by date ascending.
	ListWeights(ctx context.Context, userID, from, to string) ([]WeightEntry, error)

	// GetWeightByDate returns the entry for one date, if any.
	GetWeightByDate(ctx context.Context, userID, date string) (*WeightEntry, bool, error)
}

// MealEntry is one logged food item with its nutrition facts. Enriched is
// false when the nutrition lookup failed and the row carries zero facts.
type MealEntry struct {
	ID        uuid.UUID
	UserID    string
	FoodID    string
	Label     string
	MealType  string // "breakfast" | "lunch" | "dinner" | "snack" | "unknown"
	Quantity  string
	Unit      string
	Calories  float64
	Protein   float64
	Fat       float64
	Carbs     float64
	Fiber     float64
	Sugar     float64
	Sodium    float64
	Enriched  bool
	Date      string // YYYY-MM-DD, user-local
	CreatedAt time.Time
}

// MealsStorage persists meal entries.
type MealsStorage interface {
	// InsertMeal appends one meal entry.
	InsertMeal(ctx context.Context, entry *MealEntry) error

	// ListMeals returns entries in [from, to] ordered by creation ascending.
	ListMeals(ctx context.Context, userID, from, to string) ([]MealEntry, error)
}

// Calorie entry kinds.
const (
	CalorieConsumed = "consumed"
	CalorieBurned   = "burned"
)

// CalorieEntry is a per-day calorie total of one kind. At most one entry per
// user, date and kind; re-logging replaces.
type CalorieEntry struct {
	ID        uuid.UUID
	UserID    string
	Kind      string // consumed | burned
	Kcal      float64
	Date      string // YYYY-MM-DD, user-local
	CreatedAt time.Time
}

// CaloriesStorage persists calorie entries.
type CaloriesStorage interface {
	// UpsertCalorie stores the entry, replacing any existing entry with the
	// same user, date and kind.
	UpsertCalorie(ctx context.Context, entry *CalorieEntry) error

	// ListCalories returns entries in [from, to] ordered by date ascending.
	ListCalories(ctx context.Context, userID, from, to string) ([]CalorieEntry, error)
}

// MoodEntry is a free-text mood/energy check-in.
type MoodEntry struct {
	ID        uuid.UUID
	UserID    string
	Note      string
	Date      string // YYYY-MM-DD, user-local
	CreatedAt time.Time
}

// MoodsStorage persists mood entries.
type MoodsStorage interface {
	// InsertMood appends one mood entry.
	InsertMood(ctx context.Context, entry *MoodEntry) error

	// ListMoods returns entries in [from, to] ordered by creation ascending.
	ListMoods(ctx context.Context, userID, from, to string) ([]MoodEntry, error)
}

// Settings holds per-user preferences. Nil pointers mean "use default".
type Settings struct {
	TimeZone             *string // IANA name, drives the notification clock
	NotificationsEnabled bool
	DisabledWindows      []string // window names the user muted
}

// SettingsStorage persists user settings.
type SettingsStorage interface {
	// GetSettings returns (settings, found). found=false means defaults apply.
	GetSettings(ctx context.Context, userID string) (Settings, bool, error)

	// UpsertSettings stores the settings and returns the stored value.
	UpsertSettings(ctx context.Context, userID string, s Settings) (Settings, error)
}

// Document is an ingested file (coaching plan, lab report) with its
// extracted text.
type Document struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Filename    string
	ContentType string
	SizeBytes   int64
	ObjectKey   *string // blob key; nil when bytes live in storage (memory mode)
	Text        string  // extracted by the ingestor
	CreatedAt   time.Time
}

// DocumentsStorage persists document metadata and, in memory mode, bytes.
type DocumentsStorage interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	// PutDocumentBlob / GetDocumentBlob carry raw bytes for backends without
	// an external blob store.
	PutDocumentBlob(ctx context.Context, id uuid.UUID, data []byte, contentType string) error
	GetDocumentBlob(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

// ReportMeta describes one generated progress report.
type ReportMeta struct {
	ID        uuid.UUID
	UserID    string
	Format    string // "pdf" or "csv"
	FromDate  string // YYYY-MM-DD
	ToDate    string // YYYY-MM-DD
	ObjectKey *string // S3 object key (nil for memory mode)
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // only used in memory mode (not stored in DB)
}

// ReportsStorage persists report metadata.
type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, userID string, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

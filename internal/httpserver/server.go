package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/slimreset/slimcoach/internal/ai"
	"github.com/slimreset/slimcoach/internal/auth"
	"github.com/slimreset/slimcoach/internal/blob"
	"github.com/slimreset/slimcoach/internal/calories"
	"github.com/slimreset/slimcoach/internal/chat"
	"github.com/slimreset/slimcoach/internal/config"
	"github.com/slimreset/slimcoach/internal/documents"
	"github.com/slimreset/slimcoach/internal/extract"
	"github.com/slimreset/slimcoach/internal/meals"
	"github.com/slimreset/slimcoach/internal/moods"
	"github.com/slimreset/slimcoach/internal/notifications"
	"github.com/slimreset/slimcoach/internal/nutrition"
	"github.com/slimreset/slimcoach/internal/reports"
	"github.com/slimreset/slimcoach/internal/settings"
	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/storage/memory"
	"github.com/slimreset/slimcoach/internal/storage/postgres"
	"github.com/slimreset/slimcoach/internal/storage/sqlite"
	"github.com/slimreset/slimcoach/internal/tracker"
	"github.com/slimreset/slimcoach/internal/weights"
)

// Server is the HTTP server
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.UsersStorage
	authMiddleware *auth.Middleware
	hub            *notifications.Hub
}

// New creates a new HTTP server
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage selects the storage backend: Postgres when DATABASE_URL is
// set, SQLite when SQLITE_PATH is set, memory otherwise.
func (s *Server) initStorage() {
	if s.config.DatabaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("WARN storage: PostgreSQL connection failed: %v", err)
			log.Println("WARN storage: falling back to in-memory storage")
			s.storage = memory.New()
			return
		}
		log.Println("INFO storage: PostgreSQL connected")
		s.storage = pgStorage
		return
	}

	if s.config.SQLitePath != "" {
		sqliteStorage, err := sqlite.New(s.config.SQLitePath)
		if err != nil {
			log.Printf("WARN storage: SQLite open failed: %v", err)
			log.Println("WARN storage: falling back to in-memory storage")
			s.storage = memory.New()
			return
		}
		log.Printf("INFO storage: SQLite at %s", s.config.SQLitePath)
		s.storage = sqliteStorage
		return
	}

	log.Println("INFO storage: using in-memory storage")
	s.storage = memory.New()
}

// routes registers all endpoints
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config, s.storage)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - anonymous dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Weights API
	weightsStorage := s.getWeightsStorage()
	weightsService := weights.NewService(weightsStorage)

	// GET /v1/weights - list weigh-ins in a date range
	s.mux.HandleFunc("GET /v1/weights", weights.HandleList(weightsService))

	// POST /v1/weights - upsert a weigh-in (same date replaces)
	s.mux.HandleFunc("POST /v1/weights", weights.HandleUpsert(weightsService))

	// Meals API
	mealsStorage := s.getMealsStorage()
	nutritionLookup := nutrition.NewLookup(s.config)
	mealsService := meals.NewService(mealsStorage, nutritionLookup)

	// GET /v1/meals - list meals in a date range
	s.mux.HandleFunc("GET /v1/meals", meals.HandleList(mealsService))

	// POST /v1/meals - log a meal (enriched via nutrition lookup)
	s.mux.HandleFunc("POST /v1/meals", meals.HandleLog(mealsService))

	// Calories API
	caloriesStorage := s.getCaloriesStorage()
	caloriesService := calories.NewService(caloriesStorage)

	// GET /v1/calories - list calorie entries in a date range
	s.mux.HandleFunc("GET /v1/calories", calories.HandleList(caloriesService))

	// POST /v1/calories - upsert a calorie entry (same date+kind replaces)
	s.mux.HandleFunc("POST /v1/calories", calories.HandleUpsert(caloriesService))

	// Moods API
	moodsStorage := s.getMoodsStorage()
	moodsService := moods.NewService(moodsStorage)

	// GET /v1/moods - list mood entries
	s.mux.HandleFunc("GET /v1/moods", moods.HandleList(moodsService))

	// POST /v1/moods - log a mood note
	s.mux.HandleFunc("POST /v1/moods", moods.HandleLog(moodsService))

	// User Settings API
	settingsService := settings.NewService(s.getSettingsStorage(), s.config)
	settingsHandler := settings.NewHandler(settingsService)
	s.mux.HandleFunc("GET /v1/settings", settingsHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/settings", settingsHandler.HandlePut)

	// Notifications API (time-window scheduler + push hub)
	notificationsService := notifications.NewService(
		weightsStorage,
		mealsStorage,
		moodsStorage,
		s.getSettingsStorage(),
		s.config,
	)
	s.hub = notifications.NewHub(notificationsService, time.Duration(s.config.PushIntervalSeconds)*time.Second)

	// GET /v1/notifications/pending - the single notification owed right now
	s.mux.HandleFunc("GET /v1/notifications/pending", notifications.HandleGetPending(notificationsService))

	// GET /v1/notifications/ws - websocket push
	s.mux.HandleFunc("GET /v1/notifications/ws", s.hub.HandleWebSocket)

	// Chat API (turn resolver)
	aiProvider := ai.NewProvider(s.config)
	analyzer := extract.NewAnalyzer(s.config)
	chatService := chat.NewService(
		s.config,
		s.getChatStorage(),
		analyzer,
		mealsService,
		aiProvider,
	).WithHealthStorages(
		weightsStorage,
		mealsStorage,
		caloriesStorage,
		moodsStorage,
	).WithSettings(settingsService).WithNotifications(notificationsService)
	chatHandler := chat.NewHandler(chatService)
	s.mux.HandleFunc("GET /v1/chat/messages", chatHandler.HandleListMessages)
	s.mux.HandleFunc("POST /v1/chat/messages", chatHandler.HandleSendMessage)
	s.mux.HandleFunc("POST /v1/chat/session", chatHandler.HandleStartSession)

	// Tracker API
	trackerService := tracker.NewService(weightsStorage, mealsStorage, caloriesStorage, moodsStorage)

	// GET /v1/tracker/summary - daily aggregate
	s.mux.HandleFunc("GET /v1/tracker/summary", tracker.HandleGetSummary(trackerService))

	// Documents API
	documentsBlobStore, reportsBlobStore := s.initBlobStores()
	documentsService := documents.NewService(
		s.getDocumentsStorage(),
		documentsBlobStore,
		s.config.UploadMaxMB,
		s.config.UploadAllowedMime,
		s.config.DocumentsMaxCount,
	)
	documentsHandler := documents.NewHandlers(documentsService)

	// POST /v1/documents - multipart upload, runs the ingestor
	s.mux.HandleFunc("POST /v1/documents", documentsHandler.HandleUpload)

	// GET /v1/documents - list documents
	s.mux.HandleFunc("GET /v1/documents", documentsHandler.HandleList)

	// GET /v1/documents/{id} - document with extracted text
	s.mux.HandleFunc("GET /v1/documents/{id}", documentsHandler.HandleGet)

	// GET /v1/documents/{id}/download - original bytes
	s.mux.HandleFunc("GET /v1/documents/{id}/download", documentsHandler.HandleDownload)

	// DELETE /v1/documents/{id} - delete document
	s.mux.HandleFunc("DELETE /v1/documents/{id}", documentsHandler.HandleDelete)

	// Reports API
	reportsGenerator := reports.NewGenerator(weightsStorage, mealsStorage, caloriesStorage, moodsStorage)
	reportsService := reports.NewService(
		s.getReportsStorage(),
		reportsGenerator,
		reportsBlobStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
	)
	reportsHandler := reports.NewHandlers(reportsService)

	// POST /v1/reports - generate a progress report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id}/download - download report
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// getChatStorage returns chat storage based on storage type.
func (s *Server) getChatStorage() storage.ChatStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetChatStorage()
	case *sqlite.SQLiteStorage:
		return st.GetChatStorage()
	case *postgres.PostgresStorage:
		return st.GetChatStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getWeightsStorage returns weights storage based on storage type.
func (s *Server) getWeightsStorage() storage.WeightsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetWeightsStorage()
	case *sqlite.SQLiteStorage:
		return st.GetWeightsStorage()
	case *postgres.PostgresStorage:
		return st.GetWeightsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getMealsStorage returns meals storage based on storage type.
func (s *Server) getMealsStorage() storage.MealsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetMealsStorage()
	case *sqlite.SQLiteStorage:
		return st.GetMealsStorage()
	case *postgres.PostgresStorage:
		return st.GetMealsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getCaloriesStorage returns calories storage based on storage type.
func (s *Server) getCaloriesStorage() storage.CaloriesStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetCaloriesStorage()
	case *sqlite.SQLiteStorage:
		return st.GetCaloriesStorage()
	case *postgres.PostgresStorage:
		return st.GetCaloriesStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getMoodsStorage returns moods storage based on storage type.
func (s *Server) getMoodsStorage() storage.MoodsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetMoodsStorage()
	case *sqlite.SQLiteStorage:
		return st.GetMoodsStorage()
	case *postgres.PostgresStorage:
		return st.GetMoodsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getSettingsStorage returns the user settings storage based on storage type.
func (s *Server) getSettingsStorage() storage.SettingsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetSettingsStorage()
	case *sqlite.SQLiteStorage:
		return st.GetSettingsStorage()
	case *postgres.PostgresStorage:
		return st.GetSettingsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getDocumentsStorage returns the documents storage based on storage type.
func (s *Server) getDocumentsStorage() storage.DocumentsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetDocumentsStorage()
	case *sqlite.SQLiteStorage:
		return st.GetDocumentsStorage()
	case *postgres.PostgresStorage:
		return st.GetDocumentsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getReportsStorage returns the reports storage based on storage type.
func (s *Server) getReportsStorage() storage.ReportsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetReportsStorage()
	case *sqlite.SQLiteStorage:
		return st.GetReportsStorage()
	case *postgres.PostgresStorage:
		return st.GetReportsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// initBlobStores initializes blob stores for documents and reports.
// Documents always follow BLOB_MODE, reports may override via REPORTS_MODE.
func (s *Server) initBlobStores() (documentsStore blob.Store, reportsStore blob.Store) {
	documentsCfg := s.config.Blob
	documentsCfg.ReportsModeSet = false
	documentsCfg.ReportsMode = documentsCfg.Mode

	log.Printf("INFO blob: initializing documents store (BLOB_MODE=%s)", documentsCfg.Mode)
	baseStore, baseMode, err := blob.NewBlobStore(documentsCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize documents store: %v", err)
	}
	log.Printf("INFO blob: documents blob mode: %s", baseMode)

	effectiveReportsMode := s.config.Blob.EffectiveReportsMode()
	if !s.config.Blob.ReportsModeSet || effectiveReportsMode == s.config.Blob.Mode {
		log.Printf("INFO blob: reports blob mode: %s (same as documents)", baseMode)
		return baseStore, baseStore
	}

	log.Printf("INFO blob: initializing reports store (REPORTS_MODE=%s, override from BLOB_MODE=%s)", effectiveReportsMode, s.config.Blob.Mode)
	reportsCfg := s.config.Blob
	reportsCfg.Mode = effectiveReportsMode
	reportsCfg.ReportsModeSet = false
	reportsCfg.ReportsMode = effectiveReportsMode

	reportsBlobStore, reportsMode, err := blob.NewBlobStore(reportsCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}

	// If override resolves to same mode, reuse the base store/client.
	if reportsMode == baseMode {
		log.Printf("INFO blob: reports blob mode: %s (resolved to same as documents, reusing store)", reportsMode)
		return baseStore, baseStore
	}

	log.Printf("INFO blob: reports blob mode: %s (separate store)", reportsMode)
	return baseStore, reportsBlobStore
}

// handleHealthz reports server status
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start runs the HTTP server and the notification push hub
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	if s.hub != nil {
		go s.hub.Run(context.Background())
	}

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Chat API: http://localhost%s/v1/chat/messages\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close closes the storage and releases resources
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

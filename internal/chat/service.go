package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/slimreset/slimcoach/internal/ai"
	"github.com/slimreset/slimcoach/internal/config"
	"github.com/slimreset/slimcoach/internal/extract"
	"github.com/slimreset/slimcoach/internal/notifications"
	"github.com/slimreset/slimcoach/internal/settings"
	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/weights"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
)

// MealEnricher builds a meal entry with nutrition facts filled in
type MealEnricher interface {
	Enrich(ctx context.Context, userID, name, quantity, mealType, date string) *storage.MealEntry
}

type settingsProvider interface {
	GetOrDefault(ctx context.Context, userID string) (settings.SettingsResponse, error)
}

type notificationProvider interface {
	Pending(ctx context.Context, userID string) (*notifications.Notification, error)
}

// Service is the turn resolver: it decides, per user message, whether the
// input is a meal report, an outstanding quantity answer, a weight or
// calorie report, or plain conversation, applies the side effects, and
// produces the assistant reply.
type Service struct {
	config      *config.Config
	chatStorage storage.ChatStorage
	analyzer    extract.Analyzer
	enricher    MealEnricher
	provider    ai.Provider

	weightsStorage  storage.WeightsStorage
	mealsStorage    storage.MealsStorage
	caloriesStorage storage.CaloriesStorage
	moodsStorage    storage.MoodsStorage

	settingsService settingsProvider
	notifier        notificationProvider

	now func() time.Time
}

func NewService(cfg *config.Config, chatStorage storage.ChatStorage, analyzer extract.Analyzer, enricher MealEnricher, provider ai.Provider) *Service {
	return &Service{
		config:      cfg,
		chatStorage: chatStorage,
		analyzer:    analyzer,
		enricher:    enricher,
		provider:    provider,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithHealthStorages adds the stores the resolver logs extracted data to
func (s *Service) WithHealthStorages(weightsStore storage.WeightsStorage, mealsStore storage.MealsStorage, caloriesStore storage.CaloriesStorage, moodsStore storage.MoodsStorage) *Service {
	s.weightsStorage = weightsStore
	s.mealsStorage = mealsStore
	s.caloriesStorage = caloriesStore
	s.moodsStorage = moodsStore
	return s
}

// WithSettings adds the settings service for timezone-aware dating
func (s *Service) WithSettings(settingsService settingsProvider) *Service {
	s.settingsService = settingsService
	return s
}

// WithNotifications adds the scheduler consulted by the session bootstrap
func (s *Service) WithNotifications(notifier notificationProvider) *Service {
	s.notifier = notifier
	return s
}

func (s *Service) ListMessages(ctx context.Context, userID string, limit int, before *time.Time) (*ListMessagesResponse, error) {
	limit = s.normalizeLimit(limit)
	rows, nextCursorTime, err := s.chatStorage.ListMessages(ctx, userID, limit, before)
	if err != nil {
		return nil, err
	}

	messages := make([]ChatMessageDTO, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, messageToDTO(row))
	}

	var nextCursor *string
	if nextCursorTime != nil {
		cursor := nextCursorTime.UTC().Format(time.RFC3339Nano)
		nextCursor = &cursor
	}

	return &ListMessagesResponse{
		Messages:   messages,
		NextCursor: nextCursor,
	}, nil
}

// StartSession bootstraps the chat page. resume=false starts over: the
// transcript and any pending quantity question are cleared and the synthetic
// welcome greeting is returned. resume=true restores the stored transcript.
// Either way the response carries any notification the scheduler owes.
func (s *Service) StartSession(ctx context.Context, userID string, resume bool) (*StartSessionResponse, error) {
	var messages []ChatMessageDTO

	if !resume {
		if err := s.chatStorage.ClearMessages(ctx, userID); err != nil {
			return nil, err
		}
		if err := s.chatStorage.ClearSessionState(ctx, userID); err != nil {
			return nil, err
		}
	} else {
		rows, _, err := s.chatStorage.ListMessages(ctx, userID, s.normalizeLimit(0), nil)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			messages = append(messages, messageToDTO(row))
		}
	}

	// an empty transcript gets the greeting even on resume
	if len(messages) == 0 {
		messages = append(messages, ChatMessageDTO{
			ID:        WelcomeMessageID,
			Role:      "assistant",
			Content:   WelcomeMessage,
			CreatedAt: s.now(),
		})
	}

	resp := &StartSessionResponse{Messages: messages}
	if s.notifier != nil {
		notification, err := s.notifier.Pending(ctx, userID)
		if err != nil {
			log.Printf("chat: pending notification check failed for %s: %v", userID, err)
		} else {
			resp.Notification = notification
		}
	}
	return resp, nil
}

// SendMessage resolves one turn.
func (s *Service) SendMessage(ctx context.Context, userID string, req SendMessageRequest) (*SendMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrInvalidRequest
	}

	if _, err := s.chatStorage.InsertMessage(ctx, userID, "user", content); err != nil {
		return nil, err
	}

	analysis := s.analyze(ctx, content)
	state := s.sessionState(ctx, userID)
	today := s.today(ctx, userID)

	var flags ai.ReplyRequest

	switch {
	case analysis != nil && state.Awaiting && state.PendingName != "" && analysis.IsQuantityOnly:
		// The outstanding quantity question is being answered. This path
		// wins over everything else in the analysis.
		quantity := content
		if analysis.ExtractedQuantity != nil && strings.TrimSpace(*analysis.ExtractedQuantity) != "" {
			quantity = strings.TrimSpace(*analysis.ExtractedQuantity)
		}

		entry := s.enricher.Enrich(ctx, userID, state.PendingName, quantity, mealTypeOrUnknown(state.PendingMealType), today)
		if err := s.mealsStorage.InsertMeal(ctx, entry); err != nil {
			log.Printf("chat: failed to store clarified meal for %s: %v", userID, err)
		}
		if err := s.chatStorage.ClearSessionState(ctx, userID); err != nil {
			log.Printf("chat: failed to clear session state for %s: %v", userID, err)
		}

		flags.IsQuantityResponse = true
		flags.PendingFood = state.PendingName

	case analysis != nil:
		if state.Awaiting {
			if analysis.HasMeals() {
				// the user moved on to a different meal; the stale pending
				// meal is dropped, never persisted
				if err := s.chatStorage.ClearSessionState(ctx, userID); err != nil {
					log.Printf("chat: failed to clear session state for %s: %v", userID, err)
				}
			}
			// with no new meal in the message the clarification stays
			// outstanding
		}

		flags = s.applyAnalysis(ctx, userID, content, today, analysis)
	}

	reply := s.generateReply(ctx, userID, flags)

	assistantMessage, err := s.chatStorage.InsertMessage(ctx, userID, "assistant", reply)
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{
		AssistantMessage: messageToDTO(assistantMessage),
		AwaitingQuantity: flags.NeedsQuantityPrompt,
	}, nil
}

// applyAnalysis handles the weight/meals/calories/mood parts of one
// analysis. The parts are independent and combinable in a single turn.
// Persistence failures are logged and swallowed; they never change the
// reply.
func (s *Service) applyAnalysis(ctx context.Context, userID, rawInput, today string, analysis *extract.Analysis) ai.ReplyRequest {
	var flags ai.ReplyRequest

	if analysis.CurrentWeight != nil && analysis.WeightUnit != nil {
		kg, err := weights.ToKg(*analysis.CurrentWeight, *analysis.WeightUnit)
		if err != nil {
			log.Printf("chat: unrecognized weight unit %q for %s", *analysis.WeightUnit, userID)
		} else {
			entry := &storage.WeightEntry{UserID: userID, Kg: kg, Date: today, CreatedAt: s.now()}
			if err := s.weightsStorage.UpsertWeight(ctx, entry); err != nil {
				log.Printf("chat: failed to store weight for %s: %v", userID, err)
			}
			flags.IsWeightResponse = true
		}
	}

	if analysis.HasMeals() {
		if pending, ok := firstMissingQuantity(analysis.MealsEaten); ok {
			// one unusable quantity holds the whole batch back; nothing is
			// persisted until the user answers
			state := storage.SessionState{
				UserID:          userID,
				Awaiting:        true,
				PendingName:     pending.Name,
				PendingMealType: cloneMealType(pending.MealType),
				OriginalInput:   rawInput,
				UpdatedAt:       s.now(),
			}
			if err := s.chatStorage.PutSessionState(ctx, userID, state); err != nil {
				log.Printf("chat: failed to store session state for %s: %v", userID, err)
			}
			flags.NeedsQuantityPrompt = true
			flags.PendingFood = pending.Name
		} else {
			s.storeMeals(ctx, userID, today, analysis.MealsEaten)
		}
	}

	if analysis.CaloriesConsumed != nil {
		s.storeCalories(ctx, userID, today, storage.CalorieConsumed, *analysis.CaloriesConsumed)
	}
	if analysis.CaloriesBurned != nil {
		s.storeCalories(ctx, userID, today, storage.CalorieBurned, *analysis.CaloriesBurned)
	}

	if analysis.Mood != nil && strings.TrimSpace(*analysis.Mood) != "" {
		entry := &storage.MoodEntry{UserID: userID, Note: strings.TrimSpace(*analysis.Mood), Date: today, CreatedAt: s.now()}
		if err := s.moodsStorage.InsertMood(ctx, entry); err != nil {
			log.Printf("chat: failed to store mood for %s: %v", userID, err)
		}
	}

	return flags
}

// storeMeals enriches the batch concurrently and persists the results in
// input order.
func (s *Service) storeMeals(ctx context.Context, userID, today string, mentions []extract.MealMention) {
	entries := make([]*storage.MealEntry, len(mentions))

	var wg sync.WaitGroup
	for i, mention := range mentions {
		wg.Add(1)
		go func(i int, mention extract.MealMention) {
			defer wg.Done()
			quantity := "1"
			if mention.Quantity != nil {
				quantity = *mention.Quantity
			}
			entries[i] = s.enricher.Enrich(ctx, userID, mention.Name, quantity, mealTypeOrUnknown(mention.MealType), today)
		}(i, mention)
	}
	wg.Wait()

	for _, entry := range entries {
		if err := s.mealsStorage.InsertMeal(ctx, entry); err != nil {
			log.Printf("chat: failed to store meal %q for %s: %v", entry.Label, userID, err)
		}
	}
}

func (s *Service) storeCalories(ctx context.Context, userID, today, kind string, kcal float64) {
	entry := &storage.CalorieEntry{UserID: userID, Kind: kind, Kcal: kcal, Date: today, CreatedAt: s.now()}
	if err := s.caloriesStorage.UpsertCalorie(ctx, entry); err != nil {
		log.Printf("chat: failed to store %s calories for %s: %v", kind, userID, err)
	}
}

// generateReply asks the chat provider for the assistant message. Any
// failure degrades to the fixed apology.
func (s *Service) generateReply(ctx context.Context, userID string, flags ai.ReplyRequest) string {
	historyRows, _, err := s.chatStorage.ListMessages(ctx, userID, s.normalizeLimit(0), nil)
	if err != nil {
		log.Printf("chat: failed to load transcript for %s: %v", userID, err)
		return apologyMessage
	}

	messages := make([]ai.ChatMessage, 0, len(historyRows))
	for _, msg := range historyRows {
		messages = append(messages, ai.ChatMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}

	flags.UserID = userID
	flags.Messages = messages
	flags.Snapshot = s.buildSnapshot(ctx, userID)

	reply, err := s.provider.Reply(ctx, flags)
	if err != nil {
		log.Printf("chat: reply generation failed for %s: %v", userID, err)
		return apologyMessage
	}

	assistantText := strings.TrimSpace(reply.AssistantText)
	if assistantText == "" {
		return apologyMessage
	}
	return assistantText
}

// analyze runs the extraction adapter under its own timeout. A nil result
// means "nothing structured here" and the turn degrades to plain chat.
func (s *Service) analyze(ctx context.Context, content string) *extract.Analysis {
	timeout := time.Duration(s.config.ExtractTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	analysis, err := s.analyzer.Analyze(ctx, content)
	if err != nil {
		log.Printf("chat: extraction failed: %v", err)
		return nil
	}
	return analysis
}

func (s *Service) buildSnapshot(ctx context.Context, userID string) ai.HealthSnapshot {
	today := s.today(ctx, userID)
	snapshot := ai.HealthSnapshot{Date: today}

	if entry, ok, err := s.weightsStorage.GetWeightByDate(ctx, userID, today); err == nil && ok {
		lbs := weights.DisplayLbs(entry.Kg)
		snapshot.WeightLbs = &lbs
	}

	if entries, err := s.caloriesStorage.ListCalories(ctx, userID, today, today); err == nil {
		for i := range entries {
			switch entries[i].Kind {
			case storage.CalorieConsumed:
				snapshot.CaloriesConsumed = &entries[i].Kcal
			case storage.CalorieBurned:
				snapshot.CaloriesBurned = &entries[i].Kcal
			}
		}
	}

	if entries, err := s.mealsStorage.ListMeals(ctx, userID, today, today); err == nil {
		for _, m := range entries {
			snapshot.MealLabels = append(snapshot.MealLabels, m.Label)
		}
	}

	if entries, err := s.moodsStorage.ListMoods(ctx, userID, today, today); err == nil && len(entries) > 0 {
		snapshot.Mood = entries[len(entries)-1].Note
	}

	return snapshot
}

func (s *Service) sessionState(ctx context.Context, userID string) storage.SessionState {
	state, ok, err := s.chatStorage.GetSessionState(ctx, userID)
	if err != nil {
		log.Printf("chat: failed to load session state for %s: %v", userID, err)
	}
	if !ok || err != nil {
		return storage.SessionState{UserID: userID}
	}
	return state
}

// today resolves the current date in the user's configured timezone
func (s *Service) today(ctx context.Context, userID string) string {
	loc := time.UTC
	if s.settingsService != nil {
		if resp, err := s.settingsService.GetOrDefault(ctx, userID); err == nil && resp.Settings.TimeZone != nil {
			if loaded, err := time.LoadLocation(strings.TrimSpace(*resp.Settings.TimeZone)); err == nil {
				loc = loaded
			}
		}
	}
	return s.now().In(loc).Format("2006-01-02")
}

func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		limit = s.config.ChatHistoryLimit
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return limit
}

func firstMissingQuantity(mentions []extract.MealMention) (extract.MealMention, bool) {
	for _, m := range mentions {
		if m.MissingQuantity() {
			return m, true
		}
	}
	return extract.MealMention{}, false
}

func mealTypeOrUnknown(mealType *string) string {
	if mealType == nil || strings.TrimSpace(*mealType) == "" {
		return "unknown"
	}
	return strings.ToLower(strings.TrimSpace(*mealType))
}

func cloneMealType(mealType *string) *string {
	if mealType == nil {
		return nil
	}
	copied := *mealType
	return &copied
}

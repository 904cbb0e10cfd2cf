package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/slimreset/slimcoach/internal/ai"
	"github.com/slimreset/slimcoach/internal/config"
	"github.com/slimreset/slimcoach/internal/extract"
	"github.com/slimreset/slimcoach/internal/meals"
	"github.com/slimreset/slimcoach/internal/notifications"
	"github.com/slimreset/slimcoach/internal/nutrition"
	"github.com/slimreset/slimcoach/internal/settings"
	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/storage/memory"
)

func newTestService() (*Service, *memory.MemoryStorage) {
	mem := memory.New()
	cfg := &config.Config{
		ExtractTimeoutSeconds: 5,
		ChatHistoryLimit:      20,
		DefaultTimeZone:       "UTC",
	}

	enricher := meals.NewService(mem.GetMealsStorage(), nutrition.NewMockLookup())
	notifier := notifications.NewService(mem.GetWeightsStorage(), mem.GetMealsStorage(), mem.GetMoodsStorage(), mem.GetSettingsStorage(), cfg)

	service := NewService(cfg, mem.GetChatStorage(), extract.NewMockAnalyzer(), enricher, ai.NewMockProvider()).
		WithHealthStorages(mem.GetWeightsStorage(), mem.GetMealsStorage(), mem.GetCaloriesStorage(), mem.GetMoodsStorage()).
		WithSettings(settings.NewService(mem.GetSettingsStorage(), cfg)).
		WithNotifications(notifier)

	return service, mem
}

func today(s *Service) string {
	return s.now().Format("2006-01-02")
}

func TestWeightTurn(t *testing.T) {
	service, mem := newTestService()

	resp, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "my weight is 70 kg"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.AssistantMessage.Content == "" {
		t.Fatal("expected an assistant reply")
	}

	date := today(service)
	entry, ok, err := mem.GetWeightsStorage().GetWeightByDate(context.Background(), "default", date)
	if err != nil || !ok {
		t.Fatalf("expected weight persisted for %s, ok=%v err=%v", date, ok, err)
	}
	if entry.Kg != 70 {
		t.Errorf("expected 70 kg stored, got %f", entry.Kg)
	}
}

func TestMealWithQuantityAndBurnedCalories(t *testing.T) {
	service, mem := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "I ate 2 chicken breasts for lunch and burned 300 calories"}); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	date := today(service)
	storedMeals, err := mem.GetMealsStorage().ListMeals(context.Background(), "default", date, date)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(storedMeals) != 1 {
		t.Fatalf("expected 1 stored meal, got %d", len(storedMeals))
	}
	if storedMeals[0].MealType != "lunch" {
		t.Errorf("expected lunch meal, got %s", storedMeals[0].MealType)
	}
	if !storedMeals[0].Enriched {
		t.Error("expected meal enriched")
	}

	calories, err := mem.GetCaloriesStorage().ListCalories(context.Background(), "default", date, date)
	if err != nil {
		t.Fatalf("ListCalories failed: %v", err)
	}
	if len(calories) != 1 || calories[0].Kind != storage.CalorieBurned || calories[0].Kcal != 300 {
		t.Fatalf("expected one burned entry of 300, got %+v", calories)
	}
}

func TestMissingQuantityHoldsBatch(t *testing.T) {
	service, mem := newTestService()

	resp, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i ate apple"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !resp.AwaitingQuantity {
		t.Error("expected awaiting_quantity=true")
	}

	date := today(service)
	storedMeals, err := mem.GetMealsStorage().ListMeals(context.Background(), "default", date, date)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(storedMeals) != 0 {
		t.Fatalf("expected no meals persisted while quantity is outstanding, got %d", len(storedMeals))
	}

	state, ok, err := mem.GetChatStorage().GetSessionState(context.Background(), "default")
	if err != nil || !ok {
		t.Fatalf("expected session state stored, ok=%v err=%v", ok, err)
	}
	if !state.Awaiting || state.PendingName != "apple" {
		t.Errorf("expected pending apple, got %+v", state)
	}
	if state.OriginalInput != "i ate apple" {
		t.Errorf("expected raw input captured, got %q", state.OriginalInput)
	}
}

func TestQuantityFollowUpResolvesPending(t *testing.T) {
	service, mem := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i ate apple"}); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "3"}); err != nil {
		t.Fatalf("second turn failed: %v", err)
	}

	date := today(service)
	storedMeals, err := mem.GetMealsStorage().ListMeals(context.Background(), "default", date, date)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(storedMeals) != 1 {
		t.Fatalf("expected 1 meal after clarification, got %d", len(storedMeals))
	}
	if storedMeals[0].Quantity != "3" {
		t.Errorf("expected quantity 3, got %q", storedMeals[0].Quantity)
	}

	if _, ok, _ := mem.GetChatStorage().GetSessionState(context.Background(), "default"); ok {
		t.Error("expected session state cleared after clarification")
	}
}

func TestRepeatedClarificationIsFreshMessage(t *testing.T) {
	service, mem := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i ate apple"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "3"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	// the pending state is gone, so a second "3" is just conversation
	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "3"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	date := today(service)
	storedMeals, _ := mem.GetMealsStorage().ListMeals(context.Background(), "default", date, date)
	if len(storedMeals) != 1 {
		t.Fatalf("expected clarification not reapplied, got %d meals", len(storedMeals))
	}
}

func TestNewMealDiscardsStalePending(t *testing.T) {
	service, mem := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i ate apple"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "I ate 2 pieces salmon for dinner"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	date := today(service)
	storedMeals, _ := mem.GetMealsStorage().ListMeals(context.Background(), "default", date, date)
	if len(storedMeals) != 1 {
		t.Fatalf("expected only the new meal stored, got %d", len(storedMeals))
	}
	if !strings.Contains(strings.ToLower(storedMeals[0].Label), "salmon") {
		t.Errorf("expected salmon stored, got %q", storedMeals[0].Label)
	}
	if _, ok, _ := mem.GetChatStorage().GetSessionState(context.Background(), "default"); ok {
		t.Error("expected stale pending meal discarded")
	}
}

func TestUnrelatedMessagePreservesPending(t *testing.T) {
	service, mem := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i ate apple"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "what should my protein target be?"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	state, ok, err := mem.GetChatStorage().GetSessionState(context.Background(), "default")
	if err != nil || !ok {
		t.Fatalf("expected pending state preserved, ok=%v err=%v", ok, err)
	}
	if !state.Awaiting || state.PendingName != "apple" {
		t.Errorf("expected apple still pending, got %+v", state)
	}
}

func TestSameDayCaloriesReplace(t *testing.T) {
	service, mem := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i consumed 200 calories"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i consumed 350 calories"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	date := today(service)
	entries, err := mem.GetCaloriesStorage().ListCalories(context.Background(), "default", date, date)
	if err != nil {
		t.Fatalf("ListCalories failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one consumed entry, got %d", len(entries))
	}
	if entries[0].Kcal != 350 {
		t.Errorf("expected latest value 350, got %f", entries[0].Kcal)
	}
}

func TestPlainChatTurn(t *testing.T) {
	service, mem := newTestService()

	resp, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "hello there"})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.AssistantMessage.Role != "assistant" || resp.AssistantMessage.Content == "" {
		t.Fatalf("expected assistant reply, got %+v", resp.AssistantMessage)
	}

	rows, _, err := mem.GetChatStorage().ListMessages(context.Background(), "default", 10, nil)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected user+assistant messages persisted, got %d", len(rows))
	}
	if rows[0].Role != "user" || rows[1].Role != "assistant" {
		t.Errorf("expected user then assistant order, got %s then %s", rows[0].Role, rows[1].Role)
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	service, _ := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "   "}); err != ErrInvalidRequest {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestStartSessionFresh(t *testing.T) {
	service, mem := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "i ate apple"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	resp, err := service.StartSession(context.Background(), "default", false)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if len(resp.Messages) != 1 || resp.Messages[0].ID != WelcomeMessageID {
		t.Fatalf("expected only the welcome message, got %+v", resp.Messages)
	}
	if resp.Messages[0].Role != "assistant" {
		t.Errorf("expected assistant welcome, got %s", resp.Messages[0].Role)
	}

	rows, _, _ := mem.GetChatStorage().ListMessages(context.Background(), "default", 10, nil)
	if len(rows) != 0 {
		t.Errorf("expected transcript cleared, got %d rows", len(rows))
	}
	if _, ok, _ := mem.GetChatStorage().GetSessionState(context.Background(), "default"); ok {
		t.Error("expected session state cleared")
	}
}

func TestStartSessionResume(t *testing.T) {
	service, _ := newTestService()

	if _, err := service.SendMessage(context.Background(), "default", SendMessageRequest{Content: "hello there"}); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	resp, err := service.StartSession(context.Background(), "default", true)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected stored transcript, got %d messages", len(resp.Messages))
	}
	for _, msg := range resp.Messages {
		if msg.ID == WelcomeMessageID {
			t.Error("welcome message must not appear in a resumed transcript")
		}
	}
}

package notifications

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/config"
	"github.com/slimreset/slimcoach/internal/storage"
	"github.com/slimreset/slimcoach/internal/weights"
)

// Service decides whether a proactive coaching prompt is owed for the
// current time and what it should say.
type Service struct {
	weights  storage.WeightsStorage
	meals    storage.MealsStorage
	moods    storage.MoodsStorage
	settings storage.SettingsStorage
	config   *config.Config
	now      func() time.Time
}

// NewService creates a new notifications service
func NewService(weightsStore storage.WeightsStorage, mealsStore storage.MealsStorage, moodsStore storage.MoodsStorage, settingsStore storage.SettingsStorage, cfg *config.Config) *Service {
	return &Service{
		weights:  weightsStore,
		meals:    mealsStore,
		moods:    moodsStore,
		settings: settingsStore,
		config:   cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Pending returns the single notification owed right now, or nil. The
// primary window check runs first; the cross-window lunch check only runs
// when the primary yields nothing.
func (s *Service) Pending(ctx context.Context, userID string) (*Notification, error) {
	settings := s.userSettings(ctx, userID)
	if !settings.NotificationsEnabled {
		return nil, nil
	}

	now := s.now().In(s.userLocation(settings))
	today := now.Format("2006-01-02")

	if n, err := s.primary(ctx, userID, now, today, settings); err != nil || n != nil {
		return n, err
	}
	return s.crossWindow(ctx, userID, now, today, settings)
}

func (s *Service) primary(ctx context.Context, userID string, now time.Time, today string, settings storage.Settings) (*Notification, error) {
	window, ok := CurrentWindow(now)
	if !ok || windowDisabled(settings, window.Key) {
		return nil, nil
	}

	switch window.Type {
	case TypeWeight:
		logged, err := s.hasWeightToday(ctx, userID, today)
		if err != nil || logged {
			return nil, err
		}
	case TypeBreakfast, TypeLunch, TypeDinner:
		logged, err := s.hasMealToday(ctx, userID, today, window.Type)
		if err != nil || logged {
			return nil, err
		}
	case TypeMood:
		logged, err := s.hasMoodToday(ctx, userID, today)
		if err != nil || logged {
			return nil, err
		}
	case TypeSummary:
		// the summary always fires
		body, err := s.summaryBody(ctx, userID, now, today)
		if err != nil {
			return nil, err
		}
		return &Notification{
			Type:       TypeSummary,
			TimeWindow: window.TimeRange(),
			Message:    body,
			Action:     coachMessages[TypeSummary].Action,
		}, nil
	}

	msg := coachMessages[window.Type]
	return &Notification{
		Type:       window.Type,
		TimeWindow: window.TimeRange(),
		Message:    msg.Message,
		Action:     msg.Action,
	}, nil
}

// crossWindow nudges about lunch after the lunch window has opened when
// the user weighed in but never logged lunch.
func (s *Service) crossWindow(ctx context.Context, userID string, now time.Time, today string, settings storage.Settings) (*Notification, error) {
	if windowDisabled(settings, "LUNCH") {
		return nil, nil
	}

	minutes := now.Hour()*60 + now.Minute()
	if minutes < timeToMinutes(lunchOpens) {
		return nil, nil
	}

	hasWeight, err := s.hasWeightToday(ctx, userID, today)
	if err != nil || !hasWeight {
		return nil, err
	}
	hasLunch, err := s.hasMealToday(ctx, userID, today, TypeLunch)
	if err != nil || hasLunch {
		return nil, err
	}

	msg := coachMessages[TypeLunch]
	return &Notification{
		Type:       TypeLunch,
		TimeWindow: "Cross-time check",
		Message:    msg.Message,
		Action:     msg.Action,
	}, nil
}

func (s *Service) summaryBody(ctx context.Context, userID string, now time.Time, today string) (string, error) {
	weightStatus := "Not logged ❌"
	if entry, ok, err := s.weights.GetWeightByDate(ctx, userID, today); err != nil {
		return "", err
	} else if ok {
		weightStatus = fmt.Sprintf("%d lbs ✅", weights.DisplayLbs(entry.Kg))
	}

	meals, err := s.meals.ListMeals(ctx, userID, today, today)
	if err != nil {
		return "", err
	}
	labelsByType := map[string][]string{}
	for _, m := range meals {
		t := strings.ToLower(m.MealType)
		label := m.Label
		if label == "" {
			label = "Unknown food"
		}
		labelsByType[t] = append(labelsByType[t], label)
	}

	minutes := now.Hour()*60 + now.Minute()
	var mealSummary strings.Builder
	if minutes >= timeToMinutes(breakfastOpens) {
		mealSummary.WriteString("• " + formatMealLine("Breakfast", labelsByType[TypeBreakfast]) + "\n")
	}
	if minutes >= timeToMinutes(lunchOpens) {
		mealSummary.WriteString("• " + formatMealLine("Lunch", labelsByType[TypeLunch]) + "\n")
	}
	if minutes >= timeToMinutes(dinnerOpens) {
		mealSummary.WriteString("• " + formatMealLine("Dinner", labelsByType[TypeDinner]) + "\n")
	}

	date := now.Format("Monday, January 2, 2006")
	return fmt.Sprintf("That's a wrap on today, Melissa. Here's your summary for %s: \n\n📊 **Today's Progress:**\n• Weight: %s\n%s%s",
		date, weightStatus, mealSummary.String(), summaryClosing), nil
}

func formatMealLine(name string, labels []string) string {
	if len(labels) == 0 {
		return name + ": Not logged ❌"
	}
	return name + ": " + strings.Join(labels, ", ") + " ✅"
}

func (s *Service) hasWeightToday(ctx context.Context, userID, today string) (bool, error) {
	_, ok, err := s.weights.GetWeightByDate(ctx, userID, today)
	return ok, err
}

func (s *Service) hasMealToday(ctx context.Context, userID, today, mealType string) (bool, error) {
	meals, err := s.meals.ListMeals(ctx, userID, today, today)
	if err != nil {
		return false, err
	}
	for _, m := range meals {
		if strings.EqualFold(m.MealType, mealType) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) hasMoodToday(ctx context.Context, userID, today string) (bool, error) {
	moods, err := s.moods.ListMoods(ctx, userID, today, today)
	if err != nil {
		return false, err
	}
	return len(moods) > 0, nil
}

func (s *Service) userSettings(ctx context.Context, userID string) storage.Settings {
	settings, ok, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		log.Printf("notifications: failed to load settings for %s: %v", userID, err)
	}
	if !ok || err != nil {
		return storage.Settings{NotificationsEnabled: true}
	}
	return settings
}

func (s *Service) userLocation(settings storage.Settings) *time.Location {
	name := s.config.DefaultTimeZone
	if settings.TimeZone != nil && *settings.TimeZone != "" {
		name = *settings.TimeZone
	}
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("notifications: invalid time zone %q, using UTC", name)
		return time.UTC
	}
	return loc
}

func windowDisabled(settings storage.Settings, key string) bool {
	for _, k := range settings.DisabledWindows {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

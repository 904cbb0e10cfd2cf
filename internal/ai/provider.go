package ai

import (
	"context"
	"time"
)

// Provider generates coach replies for the chat turn resolver.
type Provider interface {
	Reply(ctx context.Context, req ReplyRequest) (ReplyResponse, error)
}

type ChatMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// HealthSnapshot is the user's current-day picture handed to the model so
// replies can reference real numbers.
type HealthSnapshot struct {
	Date             string
	WeightLbs        *int
	CaloriesConsumed *float64
	CaloriesBurned   *float64
	MealLabels       []string
	Mood             string
}

type ReplyRequest struct {
	UserID   string
	Messages []ChatMessage
	Snapshot HealthSnapshot

	// Turn-shaping flags from the resolver.
	IsQuantityResponse  bool   // the user just answered a quantity question
	NeedsQuantityPrompt bool   // ask for the quantity of PendingFood
	PendingFood         string // food awaiting a quantity
	IsWeightResponse    bool   // the user just logged a weight
}

type ReplyResponse struct {
	AssistantText string
}

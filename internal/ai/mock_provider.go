package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider returns canned coach replies so the server and tests run
// without an API key.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Reply(ctx context.Context, req ReplyRequest) (ReplyResponse, error) {
	_ = ctx

	if req.NeedsQuantityPrompt && req.PendingFood != "" {
		return ReplyResponse{
			AssistantText: fmt.Sprintf("<p>\nThat sounds great! How much %s did you have? A count, grams, or ounces all work.\n</p>", req.PendingFood),
		}, nil
	}

	if req.IsQuantityResponse {
		return ReplyResponse{
			AssistantText: "<p>\nPerfect, I've logged that for you. You're doing great staying on track today!\n</p>",
		}, nil
	}

	if req.IsWeightResponse {
		text := "<p>\nWeigh-in logged! Keep following your protocol and the scale will keep moving.\n</p>"
		if req.Snapshot.WeightLbs != nil {
			text = fmt.Sprintf("<p>\nWeigh-in logged at %d lbs! Keep following your protocol and the scale will keep moving.\n</p>", *req.Snapshot.WeightLbs)
		}
		return ReplyResponse{AssistantText: text}, nil
	}

	lastUserMessage := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUserMessage = req.Messages[i].Content
			break
		}
	}

	lowered := strings.ToLower(lastUserMessage)
	switch {
	case strings.Contains(lowered, "progress"):
		parts := []string{"<p>\nHere's where you stand today:"}
		if req.Snapshot.WeightLbs != nil {
			parts = append(parts, fmt.Sprintf("weight %d lbs,", *req.Snapshot.WeightLbs))
		}
		if req.Snapshot.CaloriesConsumed != nil {
			parts = append(parts, fmt.Sprintf("%.0f calories in,", *req.Snapshot.CaloriesConsumed))
		}
		parts = append(parts, "and you're showing up, which is what counts.\n</p>")
		return ReplyResponse{AssistantText: strings.Join(parts, " ")}, nil
	case strings.Contains(lowered, "recipe") || strings.Contains(lowered, "meal"):
		return ReplyResponse{
			AssistantText: "<b>\nA Simple Protocol Meal\n</b>\n<ul>\n<li>6 oz grilled chicken breast</li>\n<li>2 cups steamed approved vegetables</li>\n</ul>\n<p>\nSeason with approved herbs and you're all set.\n</p>",
		}, nil
	default:
		return ReplyResponse{
			AssistantText: "<p>\nI'm here with you! Tell me what you've eaten, your weigh-in, or how you're feeling, and I'll keep your day on track.\n</p>",
		}, nil
	}
}

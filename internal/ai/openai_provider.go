package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/config"
)

type OpenAIProvider struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	return &OpenAIProvider{
		apiKey:      cfg.OpenAIAPIKey,
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.AIMaxOutputTokens,
		temperature: cfg.AITemperature,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (p *OpenAIProvider) Reply(ctx context.Context, req ReplyRequest) (ReplyResponse, error) {
	requestPayload := chatCompletionsRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages:    p.buildMessages(req),
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return ReplyResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return ReplyResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ReplyResponse{}, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ReplyResponse{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ReplyResponse{}, fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return ReplyResponse{}, err
	}
	if len(parsed.Choices) == 0 {
		return ReplyResponse{}, fmt.Errorf("openai response does not contain choices")
	}

	return ReplyResponse{
		AssistantText: strings.TrimSpace(parsed.Choices[0].Message.Content),
	}, nil
}

func (p *OpenAIProvider) buildMessages(req ReplyRequest) []chatMessageRequest {
	messages := make([]chatMessageRequest, 0, len(req.Messages)+2)
	messages = append(messages, chatMessageRequest{
		Role:    "system",
		Content: p.systemPrompt(req),
	})
	for _, msg := range req.Messages {
		role := strings.TrimSpace(msg.Role)
		if role == "" {
			continue
		}
		messages = append(messages, chatMessageRequest{
			Role:    role,
			Content: msg.Content,
		})
	}
	return messages
}

func (p *OpenAIProvider) systemPrompt(req ReplyRequest) string {
	var b strings.Builder

	b.WriteString("Role:\n")
	b.WriteString("You are SlimCoach Ava, a warm, bubbly, science-smart virtual AI weight loss coach " +
		"for the SlimReset program, a medically supervised gut-personalized fat loss system using the " +
		"HCG 800-calorie protocol. Help clients lose 0.5-1 lb of fat per day by guiding them through " +
		"the Phase 2 (Get Slim) protocol with approved foods only.\n\n")

	b.WriteString("Personality and tone:\n")
	b.WriteString("Supportive, bubbly, gut-savvy best friend style. When needed, switch to direct, " +
		"empowering motivation. Never use emojis or markdown symbols in responses. Never address " +
		"users by name.\n\n")

	b.WriteString("Formatting:\n")
	b.WriteString("Use HTML tags only for formatting, never markdown. Headings in <b> tags on their " +
		"own line, paragraphs in <p> tags, bullet lists in <ul><li>, numbered steps in <ol><li>. " +
		"For recipes list ingredients first, then numbered instructions.\n\n")

	b.WriteString("Interaction rules:\n")
	b.WriteString("If the user mentions foods without quantity or meal type, prompt clearly and " +
		"politely for the missing details only. Never ask about meals the user did not mention. " +
		"Provide motivation when users feel discouraged or stall.\n\n")

	snap := req.Snapshot
	b.WriteString(fmt.Sprintf("Today (%s) the user has logged: ", snap.Date))
	if snap.WeightLbs != nil {
		b.WriteString(fmt.Sprintf("weight %d lbs; ", *snap.WeightLbs))
	}
	if snap.CaloriesConsumed != nil {
		b.WriteString(fmt.Sprintf("%.0f calories consumed; ", *snap.CaloriesConsumed))
	}
	if snap.CaloriesBurned != nil {
		b.WriteString(fmt.Sprintf("%.0f calories burned; ", *snap.CaloriesBurned))
	}
	if len(snap.MealLabels) > 0 {
		b.WriteString("meals: " + strings.Join(snap.MealLabels, ", ") + "; ")
	}
	if snap.Mood != "" {
		b.WriteString("mood: " + snap.Mood + "; ")
	}
	b.WriteString("\n")

	if req.NeedsQuantityPrompt && req.PendingFood != "" {
		b.WriteString(fmt.Sprintf("The user just mentioned eating %q without a quantity. "+
			"Ask warmly how much they had, and nothing else.\n", req.PendingFood))
	}
	if req.IsQuantityResponse {
		b.WriteString("The user just answered a quantity question and the meal has been logged. " +
			"Confirm it cheerfully and briefly.\n")
	}
	if req.IsWeightResponse {
		b.WriteString("The user just logged their weight. Acknowledge the weigh-in and encourage them.\n")
	}

	return b.String()
}

type chatCompletionsRequest struct {
	Model       string               `json:"model"`
	Messages    []chatMessageRequest `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

type chatMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

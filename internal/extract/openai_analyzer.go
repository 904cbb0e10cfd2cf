package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/slimreset/slimcoach/internal/config"
)

const extractionPrompt = `You are an expert NLP assistant analyzing a user's message about their food intake and health.
Only put meal here if user has confirmed eating/taking/consuming of meal.

From the user's input, extract the following structured information ONLY in JSON format with these exact keys:
{
  "meals_eaten": [
    {
      "name": <string: food label or meal name, e.g. "chicken breast">,
      "quantity": <string|null: any valid quantity consumed, including units if specified, or null if missing e.g. "150 grams", "2 slices">,
      "meal_type": <string|null: one of "breakfast", "lunch", "dinner", "snack", or null if missing>
    },
    ...
  ],
  "current_weight": <number|null>,     // weight value if mentioned, else null
  "weight_unit": <string|null>,        // "kg" or "lbs" if a weight is mentioned, else null
  "calories_consumed": <number|null>,  // calories eaten if mentioned, else null
  "calories_burned": <number|null>,    // calories burned if mentioned, else null
  "mood": <string|null>                // how the user says they feel, else null
}

- If multiple foods/meals are mentioned, list each as a separate object in the "meals_eaten" array.
- If quantity or meal_type for a meal is not explicitly mentioned or unclear, set it to null.
- Return ONLY the JSON object. Do NOT include any explanations, markdown, or extra text.
- Example user input: "For lunch I ate 200 grams of chicken breast and a small apple, then for dinner just egg whites."
- Example output:
{
  "meals_eaten": [
    {"name": "chicken breast", "quantity": "200 grams", "meal_type": "lunch"},
    {"name": "apple", "quantity": "small", "meal_type": "lunch"},
    {"name": "egg whites", "quantity": null, "meal_type": "dinner"}
  ],
  "current_weight": null,
  "weight_unit": null,
  "calories_consumed": null,
  "calories_burned": null,
  "mood": null
}

User input to analyze:`

type OpenAIAnalyzer struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIAnalyzer(cfg *config.Config) *OpenAIAnalyzer {
	timeoutSeconds := cfg.ExtractTimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	return &OpenAIAnalyzer{
		apiKey: cfg.OpenAIAPIKey,
		model:  cfg.OpenAIModel,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, userInput string) (*Analysis, error) {
	requestPayload := extractionRequest{
		Model:       a.model,
		Temperature: 0,
		MaxTokens:   300,
		Messages: []extractionMessage{
			{
				Role:    "system",
				Content: extractionPrompt + "\n\n" + userInput,
			},
		},
	}

	body, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai extraction failed with status %d", resp.StatusCode)
	}

	var parsed extractionResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai extraction response does not contain choices")
	}

	return decodeAnalysis(parsed.Choices[0].Message.Content, userInput), nil
}

// decodeAnalysis parses the model's JSON and runs the quantity-only pre-pass.
// Malformed output yields nil: the chat turn degrades to plain conversation.
func decodeAnalysis(raw, userInput string) *Analysis {
	cleaned := stripCodeFences(raw)

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		log.Printf("extract: failed to parse analysis: %v", err)
		return nil
	}

	applyQuantityOnly(&analysis, userInput)
	return &analysis
}

// applyQuantityOnly overrides the model's quantity flags with the
// deterministic regex detection, which is what the clarification flow keys
// off.
func applyQuantityOnly(analysis *Analysis, userInput string) {
	if len(analysis.MealsEaten) > 0 {
		analysis.IsQuantityOnly = false
		return
	}
	if ok, quantity := DetectQuantityOnly(userInput); ok {
		analysis.IsQuantityOnly = true
		analysis.ExtractedQuantity = &quantity
	}
}

type extractionRequest struct {
	Model       string              `json:"model"`
	Messages    []extractionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type extractionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type extractionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

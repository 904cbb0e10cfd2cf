package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slimreset/slimcoach/internal/config"
)

const edamamParserURL = "https://api.edamam.com/api/food-database/v2/parser"

// EdamamLookup queries the Edamam food database parser endpoint.
type EdamamLookup struct {
	appID      string
	appKey     string
	httpClient *http.Client
}

func NewEdamamLookup(cfg *config.Config) *EdamamLookup {
	timeoutSeconds := cfg.NutritionTimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}

	return &EdamamLookup{
		appID:  cfg.EdamamAppID,
		appKey: cfg.EdamamAppKey,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (l *EdamamLookup) Lookup(ctx context.Context, foodItem, quantity string) (*FoodFacts, error) {
	query := strings.TrimSpace(quantity + " " + foodItem)

	params := url.Values{}
	params.Set("app_id", l.appID)
	params.Set("app_key", l.appKey)
	params.Set("ingr", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, edamamParserURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam request failed with status %d", resp.StatusCode)
	}

	var parsed edamamParserResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	// Prefer the exact parse, fall back to the first hint.
	var food *edamamFood
	if len(parsed.Parsed) > 0 {
		food = &parsed.Parsed[0].Food
	} else if len(parsed.Hints) > 0 {
		food = &parsed.Hints[0].Food
	}
	if food == nil {
		return nil, ErrNotFound
	}

	facts := &FoodFacts{
		FoodID:   food.FoodID,
		Label:    food.Label,
		Calories: food.Nutrients.EnercKcal,
		Protein:  food.Nutrients.Procnt,
		Fat:      food.Nutrients.Fat,
		Carbs:    food.Nutrients.Chocdf,
		Fiber:    food.Nutrients.Fibtg,
		Sugar:    food.Nutrients.Sugar,
		Sodium:   food.Nutrients.Na,
	}
	if facts.FoodID == "" {
		facts.FoodID = "0"
	}
	if facts.Label == "" {
		facts.Label = foodItem
	}
	return facts, nil
}

type edamamParserResponse struct {
	Parsed []struct {
		Food edamamFood `json:"food"`
	} `json:"parsed"`
	Hints []struct {
		Food edamamFood `json:"food"`
	} `json:"hints"`
}

type edamamFood struct {
	FoodID    string `json:"foodId"`
	Label     string `json:"label"`
	Nutrients struct {
		EnercKcal float64 `json:"ENERC_KCAL"`
		Procnt    float64 `json:"PROCNT"`
		Fat       float64 `json:"FAT"`
		Chocdf    float64 `json:"CHOCDF"`
		Fibtg     float64 `json:"FIBTG"`
		Sugar     float64 `json:"SUGAR"`
		Na        float64 `json:"NA"`
	} `json:"nutrients"`
}

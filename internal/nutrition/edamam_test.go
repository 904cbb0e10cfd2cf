package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestEdamamLookup(serverURL string) *EdamamLookup {
	return &EdamamLookup{
		appID:      "test-id",
		appKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestEdamamLookupParsed(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("ingr")
		json.NewEncoder(w).Encode(map[string]any{
			"parsed": []map[string]any{
				{"food": map[string]any{
					"foodId": "food_abc",
					"label":  "Chicken Breast",
					"nutrients": map[string]float64{
						"ENERC_KCAL": 165,
						"PROCNT":     31,
						"FAT":        3.6,
						"CHOCDF":     0,
						"FIBTG":      0,
						"SUGAR":      0,
						"NA":         74,
					},
				}},
			},
			"hints": []map[string]any{},
		})
	}))
	defer server.Close()

	lookup := newTestEdamamLookup(server.URL)
	facts, err := lookupVia(lookup, server.URL, "chicken breast", "2 pieces")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if gotQuery != "2 pieces chicken breast" {
		t.Errorf("expected query '2 pieces chicken breast', got %q", gotQuery)
	}
	if facts.FoodID != "food_abc" {
		t.Errorf("expected foodId 'food_abc', got %q", facts.FoodID)
	}
	if facts.Calories != 165 || facts.Protein != 31 {
		t.Errorf("unexpected facts: %+v", facts)
	}
}

func TestEdamamLookupHintFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"parsed": []map[string]any{},
			"hints": []map[string]any{
				{"food": map[string]any{
					"foodId":    "food_hint",
					"label":     "Apple",
					"nutrients": map[string]float64{"ENERC_KCAL": 52},
				}},
			},
		})
	}))
	defer server.Close()

	lookup := newTestEdamamLookup(server.URL)
	facts, err := lookupVia(lookup, server.URL, "apple", "1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if facts.FoodID != "food_hint" {
		t.Errorf("expected hint fallback, got %+v", facts)
	}
}

func TestEdamamLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"parsed": []any{}, "hints": []any{}})
	}))
	defer server.Close()

	lookup := newTestEdamamLookup(server.URL)
	_, err := lookupVia(lookup, server.URL, "xyzzy", "1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// lookupVia points the lookup at the test server instead of the real API.
func lookupVia(l *EdamamLookup, baseURL, foodItem, quantity string) (*FoodFacts, error) {
	reroute := *l
	reroute.httpClient = &http.Client{
		Timeout: 5 * time.Second,
		Transport: rewriteTransport{
			base:   http.DefaultTransport,
			target: baseURL,
		},
	}
	return reroute.Lookup(context.Background(), foodItem, quantity)
}

type rewriteTransport struct {
	base   http.RoundTripper
	target string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method, t.target+"?"+req.URL.RawQuery, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return t.base.RoundTrip(redirected)
}

func TestMockLookup(t *testing.T) {
	lookup := NewMockLookup()

	facts, err := lookup.Lookup(context.Background(), "grilled chicken breast", "2")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if facts.Label != "Chicken Breast" {
		t.Errorf("expected substring match on chicken breast, got %+v", facts)
	}

	if _, err := lookup.Lookup(context.Background(), "mystery dish", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

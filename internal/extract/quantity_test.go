package extract

import "testing"

func TestDetectQuantityOnly(t *testing.T) {
	tests := []struct {
		input        string
		wantOnly     bool
		wantQuantity string
	}{
		{"3", true, "3"},
		{"  2.5 ", true, "2.5"},
		{"three", true, "3"},
		{"2 cups", true, "2 cups"},
		{"two slices", true, "2 slices"},
		{"150 grams", true, "150 grams"},
		{"the quantity was 5", true, "5"},
		{"the quantity was 2 cups", true, "2 cups"},
		{"i had 3", true, "3"},
		{"i ate an apple", false, ""},
		{"2 chicken breasts for lunch", false, ""},
		{"my weight is 70 kg", false, ""},
		{"hello", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		gotOnly, gotQuantity := DetectQuantityOnly(tt.input)
		if gotOnly != tt.wantOnly {
			t.Errorf("DetectQuantityOnly(%q) = %v, want %v", tt.input, gotOnly, tt.wantOnly)
			continue
		}
		if gotOnly && gotQuantity != tt.wantQuantity {
			t.Errorf("DetectQuantityOnly(%q) quantity = %q, want %q", tt.input, gotQuantity, tt.wantQuantity)
		}
	}
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 cups", "2 cups"},
		{"two cups", "2 cups"},
		{"the quantity was 5", "5"},
		{"had 3 slices", "3 slices"},
		{"7", "7"},
		{"a handful", "a handful"},
	}

	for _, tt := range tests {
		if got := ExtractQuantity(tt.input); got != tt.want {
			t.Errorf("ExtractQuantity(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStripCodeFences(t *testing.T) {
	input := "```json\n{\"meals_eaten\":[]}\n```"
	want := `{"meals_eaten":[]}`
	if got := stripCodeFences(input); got != want {
		t.Errorf("stripCodeFences = %q, want %q", got, want)
	}

	if got := stripCodeFences("`{}`"); got != "{}" {
		t.Errorf("stripCodeFences single backticks = %q", got)
	}
}

func TestDecodeAnalysisMalformed(t *testing.T) {
	if got := decodeAnalysis("sorry, I cannot help with that", "i ate apple"); got != nil {
		t.Errorf("expected nil analysis for malformed output, got %+v", got)
	}
}

package extract

import (
	"regexp"
	"strings"
)

// textNumbers maps spelled-out numbers to digits before the regexes run.
var textNumbers = map[string]string{
	"one":   "1",
	"two":   "2",
	"three": "3",
	"four":  "4",
	"five":  "5",
	"six":   "6",
	"seven": "7",
	"eight": "8",
	"nine":  "9",
	"ten":   "10",
}

var (
	wordBoundaryRes = buildWordBoundaryRes()

	quantityWithUnitRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(cups?|pieces?|slices?|grams?|g|kg|ounces?|oz|lbs?|pounds?|tablespoons?|tbsp|teaspoons?|tsp|servings?|serving)`)
	sentenceQuantityRe = regexp.MustCompile(`(?i)(?:quantity was|amount was|had|ate)\s*(\d+(?:\.\d+)?)\s*(cups?|pieces?|slices?|grams?|g|kg|ounces?|oz|lbs?|pounds?|tablespoons?|tbsp|teaspoons?|tsp|servings?|serving)?`)
	numberOnlyRe       = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*$`)
)

func buildWordBoundaryRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(textNumbers))
	for word := range textNumbers {
		res[word] = regexp.MustCompile(`(?i)\b` + word + `\b`)
	}
	return res
}

// normalizeNumberWords replaces spelled-out numbers one through ten with
// digits.
func normalizeNumberWords(input string) string {
	processed := strings.ToLower(input)
	for word, re := range wordBoundaryRes {
		processed = re.ReplaceAllString(processed, textNumbers[word])
	}
	return processed
}

// ExtractQuantity pulls a normalized quantity out of free text: "3 slices",
// "the quantity was 2 cups", or a bare "5". When no pattern matches it
// returns the trimmed input unchanged, so the caller can still use the raw
// answer as-is.
func ExtractQuantity(input string) string {
	processed := normalizeNumberWords(input)

	if m := quantityWithUnitRe.FindStringSubmatch(processed); m != nil {
		return m[1] + " " + m[2]
	}

	if m := sentenceQuantityRe.FindStringSubmatch(processed); m != nil {
		if m[2] != "" {
			return m[1] + " " + m[2]
		}
		return m[1]
	}

	if m := numberOnlyRe.FindStringSubmatch(processed); m != nil {
		return m[1]
	}

	return strings.TrimSpace(input)
}

// quantityOnlyRes match inputs that are nothing but a quantity. Food names
// disqualify a message from being quantity-only.
var quantityOnlyRes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*$`),
	regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(cups?|pieces?|slices?|grams?|g|kg|ounces?|oz|lbs?|pounds?|tablespoons?|tbsp|teaspoons?|tsp|servings?|serving)\s*$`),
	regexp.MustCompile(`(?i)^\s*(?:the\s+)?(?:quantity|amount)\s+was\s+(\d+(?:\.\d+)?)\s*(cups?|pieces?|slices?|grams?|g|kg|ounces?|oz|lbs?|pounds?|tablespoons?|tbsp|teaspoons?|tsp|servings?|serving)?\s*$`),
	regexp.MustCompile(`(?i)^\s*(?:i\s+)?(?:had|ate)\s+(\d+(?:\.\d+)?)\s*(cups?|pieces?|slices?|grams?|g|kg|ounces?|oz|lbs?|pounds?|tablespoons?|tbsp|teaspoons?|tsp|servings?|serving)?\s*$`),
}

// DetectQuantityOnly reports whether input is a bare quantity answer (a
// number, a number word, or number+unit with no food mentioned) and, when it
// is, the normalized quantity string.
func DetectQuantityOnly(input string) (bool, string) {
	processed := normalizeNumberWords(input)

	for _, re := range quantityOnlyRes {
		if re.MatchString(processed) {
			return true, ExtractQuantity(input)
		}
	}
	return false, ""
}

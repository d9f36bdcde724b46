package voice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPatterns are tried in priority order against the lower-cased input;
// the first pattern matching anywhere wins and later ones are not tried.
// The bare-number pattern is the deliberate last resort.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d{2})?)\s*(?:rupees?|rs|₹|inr)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?)\s*(?:dollars?|\$|usd)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?)\s*(?:euros?|€|eur)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?)`),
}

const currencyMarkers = `rupees?|rs|₹|inr|dollars?|\$|usd|euros?|€|eur`

// fillerWords are dropped from descriptions during cleanup.
var fillerWords = map[string]struct{}{
	"add": {}, "expense": {}, "for": {}, "of": {}, "the": {},
	"a": {}, "an": {}, "and": {}, "or": {}, "but": {},
}

// Parse extracts an expense candidate from free-form spoken or typed text,
// e.g. "Add dinner 7300 rupees". It is a total, pure function: it never
// fails, and unusable input comes back with Valid=false.
func Parse(text string) Candidate {
	lower := strings.ToLower(text)

	var amount *decimal.Decimal
	for _, pattern := range amountPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		if value, err := decimal.NewFromString(match[1]); err == nil {
			amount = &value
		}
		break
	}

	description := text
	if amount != nil {
		description = stripAmount(text, *amount)
	}
	description = dropFillerWords(description)
	if description == "" {
		// Cleanup emptied the text entirely; keep the raw input.
		description = text
	}

	return Candidate{
		Amount:      amount,
		Description: description,
		Category:    classify(lower),
		Confidence:  DefaultConfidence,
		Valid:       amount != nil && len(description) > 0,
	}
}

// stripAmount removes the first occurrence of the extracted amount and its
// trailing currency marker, if any, from the original-cased text. The
// amount is matched by its canonical string ("10.5", not "10.50"), so a
// differently-spelled literal survives cleanup.
func stripAmount(text string, amount decimal.Decimal) string {
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(amount.String()) + `\s*(?:` + currencyMarkers + `)?`)
	if err != nil {
		return strings.TrimSpace(text)
	}
	if loc := pattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]] + text[loc[1]:]
	}
	return strings.TrimSpace(text)
}

func dropFillerWords(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, word := range words {
		if _, filler := fillerWords[strings.ToLower(word)]; !filler {
			kept = append(kept, word)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

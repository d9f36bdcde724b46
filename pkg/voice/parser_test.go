package voice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantValid       bool
		wantAmount      string
		wantDescription string
		wantCategory    Category
	}{
		{
			name:            "canonical rupee phrase",
			text:            "Add dinner 7300 rupees",
			wantValid:       true,
			wantAmount:      "7300",
			wantDescription: "dinner",
			wantCategory:    CategoryFoodDining,
		},
		{
			name:            "transport without currency marker",
			text:            "uber ride 450",
			wantValid:       true,
			wantAmount:      "450",
			wantDescription: "uber ride",
			wantCategory:    CategoryTransportation,
		},
		{
			name:            "entertainment",
			text:            "movie tickets 1200",
			wantValid:       true,
			wantAmount:      "1200",
			wantDescription: "movie tickets",
			wantCategory:    CategoryEntertainment,
		},
		{
			name: "decimal amount strips by canonical form",
			// The amount renders as "4.5", so only that prefix of "4.50"
			// is removed and the trailing digit stays in the description.
			text:            "coffee 4.50 dollars",
			wantValid:       true,
			wantAmount:      "4.5",
			wantDescription: "coffee 0 dollars",
			wantCategory:    CategoryFoodDining,
		},
		{
			name:            "rupee symbol",
			text:            "lunch 250₹",
			wantValid:       true,
			wantAmount:      "250",
			wantDescription: "lunch",
			wantCategory:    CategoryFoodDining,
		},
		{
			name:            "filler words removed",
			text:            "add expense for the taxi 300 rs",
			wantValid:       true,
			wantAmount:      "300",
			wantDescription: "taxi",
			wantCategory:    CategoryTransportation,
		},
		{
			name:      "no digits is invalid",
			text:      "dinner with friends",
			wantValid: false,
		},
		{
			name:      "empty input is invalid",
			text:      "",
			wantValid: false,
		},
		{
			name:            "unknown words fall through to other",
			text:            "miscellaneous 999",
			wantValid:       true,
			wantAmount:      "999",
			wantDescription: "miscellaneous",
			wantCategory:    CategoryOther,
		},
		{
			name: "rule order breaks category ties",
			// "food" matches before "movie": the food rule is evaluated first.
			text:            "food at the movie 500",
			wantValid:       true,
			wantAmount:      "500",
			wantDescription: "food at movie",
			wantCategory:    CategoryFoodDining,
		},
		{
			name: "currency-marked amount wins over earlier bare number",
			// The rupee pattern matches 200 even though 2 appears first.
			text:            "2 coffees 200 rupees",
			wantValid:       true,
			wantAmount:      "200",
			wantDescription: "2 coffees",
			wantCategory:    CategoryFoodDining,
		},
		{
			name: "only first occurrence of the amount literal is stripped",
			text:            "50 donation 50",
			wantValid:       true,
			wantAmount:      "50",
			wantDescription: "donation 50",
			wantCategory:    CategoryOther,
		},
		{
			name: "keyword matches inside longer words",
			// "gas" is embedded in "gasp"; substring matching still fires.
			text:            "gasp inducing gift 150",
			wantValid:       true,
			wantAmount:      "150",
			wantDescription: "gasp inducing gift",
			wantCategory:    CategoryTransportation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := Parse(tt.text)

			assert.Equal(t, tt.wantValid, candidate.Valid)
			if !tt.wantValid {
				return
			}
			require.NotNil(t, candidate.Amount)
			assert.True(t, candidate.Amount.Equal(decimal.RequireFromString(tt.wantAmount)),
				"amount = %s, want %s", candidate.Amount, tt.wantAmount)
			assert.Equal(t, tt.wantDescription, candidate.Description)
			assert.Equal(t, tt.wantCategory, candidate.Category)
			assert.Equal(t, DefaultConfidence, candidate.Confidence)
		})
	}
}

func TestParse_IsDeterministic(t *testing.T) {
	inputs := []string{
		"Add dinner 7300 rupees",
		"uber ride 450",
		"no amount here",
		"coffee 4.50 dollars",
	}
	for _, input := range inputs {
		first := Parse(input)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Parse(input), "input %q", input)
		}
	}
}

func TestParse_FallsBackToRawTextWhenCleanupEmptiesIt(t *testing.T) {
	// Everything in the input is either the amount or a filler word, so
	// cleanup produces an empty description and the raw text is kept.
	candidate := Parse("add expense of 100")

	assert.True(t, candidate.Valid)
	assert.Equal(t, "add expense of 100", candidate.Description)
}

func TestParse_CurrencyPriorityOrder(t *testing.T) {
	// Rupees are matched before dollars regardless of word order.
	candidate := Parse("converted 20 dollars into 1700 rupees")

	if assert.NotNil(t, candidate.Amount) {
		assert.True(t, candidate.Amount.Equal(decimal.NewFromInt(1700)),
			"amount = %s, want 1700", candidate.Amount)
	}
}

func TestIsKnownCategory(t *testing.T) {
	for _, category := range Categories {
		assert.True(t, IsKnownCategory(category), "category %s", category)
	}
	assert.False(t, IsKnownCategory("groceries"))
	assert.False(t, IsKnownCategory(""))
}

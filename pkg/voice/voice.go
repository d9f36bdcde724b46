package voice

import (
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFoodDining     Category = "foodDining"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryUtilities      Category = "utilities"
	CategoryShopping       Category = "shopping"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryTravel         Category = "travel"
	CategoryOther          Category = "other"
)

// Categories lists every known category, in rule priority order with the
// fallback last.
var Categories = []Category{
	CategoryFoodDining,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryShopping,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryOther,
}

// IsKnownCategory reports whether c is one of the fixed category set.
func IsKnownCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DefaultConfidence is the static display score attached to every parsed
// candidate. It is not derived from match quality.
const DefaultConfidence = 0.85

// Candidate is the ephemeral result of parsing free-form expense text. It
// is never persisted directly; a valid candidate becomes an expense only
// when the caller commits it.
type Candidate struct {
	// Amount is nil when no recognizable number was found.
	Amount      *decimal.Decimal
	Description string
	Category    Category
	Confidence  float64
	// Valid holds iff Amount is set and Description is non-empty. A
	// candidate is never partially valid.
	Valid bool
}

package voice

import "strings"

type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules are evaluated in order and classification stops at the
// first rule with any keyword contained in the lower-cased text. Matching
// is substring-based, not word-boundary-based: a keyword embedded inside a
// longer word also matches. That quirk is inherited behavior, kept on
// purpose; the rule order is the only tie-break.
var categoryRules = []categoryRule{
	{CategoryFoodDining, []string{
		"food", "dinner", "lunch", "breakfast", "restaurant", "meal",
		"coffee", "snack", "pizza", "burger", "chicken", "rice",
	}},
	{CategoryTransportation, []string{
		"transport", "uber", "taxi", "fuel", "gas", "petrol",
		"bus", "train", "metro", "parking", "toll",
	}},
	{CategoryEntertainment, []string{
		"movie", "entertainment", "game", "concert", "show", "theater",
		"party", "outing", "fun",
	}},
	{CategoryUtilities, []string{
		"bill", "electricity", "water", "internet", "phone", "mobile",
		"gas bill", "maintenance",
	}},
	{CategoryShopping, []string{
		"shopping", "clothes", "book", "grocery", "store", "mall",
		"shirt", "pants", "shoes",
	}},
	{CategoryHealthcare, []string{
		"doctor", "medicine", "health", "medical", "hospital", "pharmacy",
		"treatment",
	}},
	{CategoryEducation, []string{
		"course", "book", "education", "training", "school", "college",
		"university", "study",
	}},
	{CategoryTravel, []string{
		"travel", "flight", "hotel", "vacation", "trip", "journey",
		"booking", "reservation",
	}},
}

func classify(lower string) Category {
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

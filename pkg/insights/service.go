package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/finvoice/finvoice/pkg/session"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrMissingData = errors.New("missing data")

// recommendationsSeparator splits the structured JSON half of an insights
// answer from the free-text recommendations half. The prompt instructs the
// model to emit it verbatim.
const recommendationsSeparator = "***RECOMMENDATIONS***"

var insightsLanguagePrompts = map[string]string{
	"en":  "Analyze this financial data and provide insights in English:",
	"hi":  "इस वित्तीय डेटा का विश्लेषण करें और हिंदी में अंतर्दृष्टि प्रदान करें:",
	"bn":  "এই আর্থিক তথ্য বিশ্লেষণ করুন এবং বাংলায় অন্তর্দৃষ্টি প্রদান করুন:",
	"or":  "ଏହି ଆର୍ଥିକ ତଥ୍ୟ ବିଶ୍ଳେଷଣ କରନ୍ତୁ ଏବଂ ଓଡ଼ିଆରେ ଅନ୍ତର୍ଦୃଷ୍ଟି ପ୍ରଦାନ କରନ୍ତୁ:",
	"pa":  "ਇਸ ਵਿੱਤੀ ਡੇਟਾ ਦਾ ਵਿਸ਼ਲੇਸ਼ਣ ਕਰੋ ਅਤੇ ਪੰਜਾਬੀ ਵਿੱਚ ਅੰਤਰਦ੍ਰਿਸ਼ਟੀ ਪ੍ਰਦਾਨ ਕਰੋ:",
	"kn":  "ಈ ಆರ್ಥಿಕ ಡೇಟಾವನ್ನು ವಿಶ್ಲೇಷಿಸಿ ಮತ್ತು ಕನ್ನಡದಲ್ಲಿ ಒಳನೋಟಗಳನ್ನು ನೀಡಿ:",
	"mar": "या आर्थिक डेटाचे विश्लेषण करा आणि मराठीत अंतर्दृष्टी द्या:",
}

var adviceLanguagePrompts = map[string]string{
	"en":  "Based on your details, provide investment advice in English:",
	"hi":  "आपकी जानकारी के आधार पर, हिंदी में निवेश सलाह दें:",
	"bn":  "আপনার বিবরণের উপর ভিত্তি করে, বাংলায় বিনিয়োগের পরামর্শ দিন:",
	"or":  "ଆପଣଙ୍କ ବିବରଣୀ ଆଧାରରେ, ଓଡ଼ିଆରେ ନିବେଶ ପରାମର୍ଶ ଦିଅନ୍ତୁ:",
	"pa":  "ਹੇ ਸਮਾਰਟ ਨਿਵੇਸ਼ਕ! ਤੁਹਾਡੇ ਵੇਰਵਿਆਂ ਦੇ ਆਧਾਰ ਤੇ:",
	"kn":  "ನಿಮ್ಮ ವಿವರಗಳ ಆಧಾರದ ಮೇಲೆ, ಕನ್ನಡದಲ್ಲಿ ಹೂಡಿಕೆ ಸಲಹೆ ನೀಡಿ:",
	"mar": "तुमच्या तपशीलांच्या आधारे, मराठीत गुंतवणूक सल्ला द्या:",
}

type BudgetCategory struct {
	Name     string          `json:"name"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Spent    decimal.Decimal `json:"spent"`
}

type BudgetData struct {
	Total      decimal.Decimal  `json:"total"`
	Spent      decimal.Decimal  `json:"spent"`
	Categories []BudgetCategory `json:"categories"`
}

type InsightsRequest struct {
	BudgetData  *BudgetData       `json:"budgetData"`
	ExpenseData []json.RawMessage `json:"expenseData"`
	Language    string            `json:"language"`
}

// Insights carries the two model-generated halves: the structured JSON part
// is passed through untouched, the recommendations come line by line.
type Insights struct {
	FinancialScore   json.RawMessage `json:"financialScore"`
	SpendingAnalysis json.RawMessage `json:"spendingAnalysis"`
	Recommendations  []string        `json:"recommendations"`
}

type AdviceRequest struct {
	Age         json.Number `json:"age"`
	FuturePlans string      `json:"futurePlans"`
	Income      json.Number `json:"income"`
	Language    string      `json:"language"`
}

type Advice struct {
	InvestmentAdvice []string `json:"investmentAdvice"`
	RawResponse      string   `json:"rawResponse"`
}

type Service interface {
	FinancialInsights(ctx context.Context, req InsightsRequest) (*Insights, error)
	InvestmentAdvice(ctx context.Context, req AdviceRequest) (*Advice, error)
}

// ServiceImpl turns raw Gemini answers into the structured payloads the
// mobile client renders. A nil AI client means the service is unconfigured
// and every call reports ErrUnavailable; handlers serve static fallbacks.
type ServiceImpl struct {
	ai Client
}

func NewService(ai Client) *ServiceImpl {
	return &ServiceImpl{ai: ai}
}

func (s *ServiceImpl) FinancialInsights(ctx context.Context, req InsightsRequest) (*Insights, error) {
	if _, err := session.RequireAny(ctx); err != nil {
		return nil, err
	}
	if req.BudgetData == nil || req.ExpenseData == nil {
		return nil, fmt.Errorf("%w: budget data and expense data are required", ErrMissingData)
	}
	if s.ai == nil {
		return nil, ErrUnavailable
	}

	answer, err := s.ai.Generate(ctx, insightsPrompt(req))
	if err != nil {
		return nil, err
	}

	jsonPart, recommendationsPart, _ := strings.Cut(answer, recommendationsSeparator)
	var payload struct {
		FinancialScore   json.RawMessage `json:"financialScore"`
		SpendingAnalysis json.RawMessage `json:"spendingAnalysis"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(jsonPart)), &payload); err != nil {
		log.Errorf("insights JSON parse error: %v", err)
		return nil, ErrResponseParse
	}

	return &Insights{
		FinancialScore:   payload.FinancialScore,
		SpendingAnalysis: payload.SpendingAnalysis,
		Recommendations:  nonEmptyLines(recommendationsPart),
	}, nil
}

func (s *ServiceImpl) InvestmentAdvice(ctx context.Context, req AdviceRequest) (*Advice, error) {
	if _, err := session.RequireAny(ctx); err != nil {
		return nil, err
	}
	if req.Age == "" || req.FuturePlans == "" || req.Income == "" {
		return nil, fmt.Errorf("%w: age, future plans, and income are required", ErrMissingData)
	}
	if s.ai == nil {
		return nil, ErrUnavailable
	}

	answer, err := s.ai.Generate(ctx, advicePrompt(req))
	if err != nil {
		return nil, err
	}

	var points []string
	for _, line := range strings.Split(answer, "\n") {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "* ") {
			points = append(points, strings.TrimSpace(trimmed[2:]))
		}
	}
	return &Advice{InvestmentAdvice: points, RawResponse: answer}, nil
}

func insightsPrompt(req InsightsRequest) string {
	intro, ok := insightsLanguagePrompts[req.Language]
	if !ok {
		intro = insightsLanguagePrompts["en"]
	}

	var categories strings.Builder
	for _, cat := range req.BudgetData.Categories {
		fmt.Fprintf(&categories, "- %s: Budgeted ₹%s, Spent ₹%s\n", cat.Name, cat.Budgeted, cat.Spent)
	}

	return fmt.Sprintf(`%s

Budget Data:
Total Budget: ₹%s
Total Spent: ₹%s
Remaining: ₹%s

Spending Categories:
%s
Please provide:
1. Financial Health Score (0-100)
2. Spending Analysis with percentages
3. 3-4 actionable recommendations

Format the response as JSON for the first two parts, separated by '%s' for the third part.`,
		intro, req.BudgetData.Total, req.BudgetData.Spent,
		req.BudgetData.Total.Sub(req.BudgetData.Spent),
		categories.String(), recommendationsSeparator)
}

func advicePrompt(req AdviceRequest) string {
	intro, ok := adviceLanguagePrompts[req.Language]
	if !ok {
		intro = adviceLanguagePrompts["en"]
	}
	return fmt.Sprintf(`%s

Age: %s
Future Goals: %s
Annual Income: ₹%s

Provide 2-3 exciting and concise investment ideas as bullet points. For each idea, briefly explain why it could be a good fit, and make sure to **bold** the key investment terms. Format it nicely for reading!`,
		intro, req.Age, req.FuturePlans, req.Income)
}

// stripCodeFences unwraps a model answer that arrived inside markdown
// code fences.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func nonEmptyLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

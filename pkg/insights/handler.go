package insights

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finvoice/finvoice/pkg/session"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Fallback any    `json:"fallback,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// insightsFallback is served when the AI backend is unconfigured, so the
// client always has something to render.
var insightsFallback = map[string]any{
	"financialScore": 75,
	"spendingAnalysis": map[string]string{
		"foodDining":     "25%",
		"transportation": "15%",
		"entertainment":  "20%",
		"utilities":      "10%",
		"shopping":       "20%",
		"other":          "10%",
	},
	"recommendations": []string{
		"Track your daily expenses to identify spending patterns",
		"Set realistic budget limits for each category",
		"Consider using cash for discretionary spending",
		"Review and adjust your budget monthly",
	},
}

var adviceFallback = map[string]any{
	"investmentAdvice": []string{
		"**Mutual Funds**: Start with SIPs in diversified equity funds for long-term wealth building",
		"**Fixed Deposits**: Consider high-yield FDs for stable returns and capital preservation",
		"**Gold ETFs**: Invest in digital gold for portfolio diversification and inflation hedge",
	},
	"rawResponse": "AI service unavailable - using fallback investment advice",
}

type Handler struct {
	insightsService Service
}

func NewHandler(insightsService Service) *Handler {
	return &Handler{insightsService}
}

func (handler *Handler) FinancialInsights(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req InsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := handler.insightsService.FinancialInsights(r.Context(), req)
	if err != nil {
		writeAIError(w, err, "Budget data and expense data are required", insightsFallback)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(successResponse{Success: true, Data: result}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) InvestmentAdvice(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := handler.insightsService.InvestmentAdvice(r.Context(), req)
	if err != nil {
		writeAIError(w, err, "Age, future plans, and income are required", adviceFallback)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(successResponse{Success: true, Data: result}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeAIError(w http.ResponseWriter, err error, missingMessage string, fallback any) {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrMissingData):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Error:   "Missing data",
			Message: missingMessage,
		})
	case errors.Is(err, ErrUnavailable):
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(errorResponse{
			Error:    "AI service unavailable",
			Message:  "Gemini AI is not configured. Please check your API key configuration.",
			Fallback: fallback,
		})
	case errors.Is(err, ErrResponseParse):
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{
			Error:   "AI response parsing failed",
			Message: "Failed to parse AI response",
		})
	default:
		log.Errorf("AI service error: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{
			Error:   "AI service error",
			Message: "Failed to generate response",
		})
	}
}

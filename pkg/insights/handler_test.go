package insights

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finvoice/finvoice/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialInsightsHandler(t *testing.T) {
	withSession := func(req *http.Request) *http.Request {
		ctx := session.WithSession(req.Context(), session.Session{
			Kind:     session.Remote,
			Identity: "user-1",
		})
		return req.WithContext(ctx)
	}

	t.Run("unconfigured AI serves the static fallback", func(t *testing.T) {
		handler := NewHandler(NewService(nil))
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/ai/insights",
			strings.NewReader(`{"budgetData": {"total": 1000, "spent": 500, "categories": []}, "expenseData": []}`)))
		recorder := httptest.NewRecorder()

		handler.FinancialInsights(recorder, req)

		require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		var response errorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "AI service unavailable", response.Error)
		assert.NotNil(t, response.Fallback)
	})

	t.Run("missing data is a client error", func(t *testing.T) {
		handler := NewHandler(NewService(&StubClient{Response: "{}"}))
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/ai/insights",
			strings.NewReader(`{"language": "en"}`)))
		recorder := httptest.NewRecorder()

		handler.FinancialInsights(recorder, req)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		var response errorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "Missing data", response.Error)
	})

	t.Run("successful answer is wrapped in the success envelope", func(t *testing.T) {
		handler := NewHandler(NewService(&StubClient{
			Response: `{"financialScore": 82, "spendingAnalysis": {}}` + "\n***RECOMMENDATIONS***\nSave more",
		}))
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/ai/insights",
			strings.NewReader(`{"budgetData": {"total": 1000, "spent": 500, "categories": []}, "expenseData": []}`)))
		recorder := httptest.NewRecorder()

		handler.FinancialInsights(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Success bool     `json:"success"`
			Data    Insights `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, []string{"Save more"}, response.Data.Recommendations)
	})
}

func TestInvestmentAdviceHandler(t *testing.T) {
	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		handler := NewHandler(NewService(&StubClient{Response: "* idea"}))
		req := httptest.NewRequest(http.MethodPost, "/api/ai/investment-advice",
			strings.NewReader(`{"age": 30, "futurePlans": "travel", "income": 100000}`))
		recorder := httptest.NewRecorder()

		handler.InvestmentAdvice(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

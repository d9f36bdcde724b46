package expense

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finvoice/finvoice/internal/event_bus"
	"github.com/finvoice/finvoice/internal/utils"
	"github.com/finvoice/finvoice/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(clock utils.Clock) *Handler {
	repo := NewStubRepo()
	service := NewService(repo, repo, event_bus.NewEventBus())
	return NewHandler(service, clock)
}

func TestCreateExpenseHandler(t *testing.T) {
	fixedNow := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	clock := &utils.MockClock{FixedNow: fixedNow}

	t.Run("missing date defaults to the handler clock", func(t *testing.T) {
		handler := newTestHandler(clock)
		body, err := json.Marshal(ExpenseDTO{Amount: 450, Description: "uber ride", Category: "transportation"})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/expenses", bytes.NewReader(body))
		req = req.WithContext(session.WithSession(req.Context(), session.Session{
			Kind:     session.Remote,
			Identity: "user-1",
		}))
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code)
		var created ExpenseDTO
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
		assert.Equal(t, fixedNow.Format(time.RFC3339), created.Date)
	})

	t.Run("explicit date wins over the clock", func(t *testing.T) {
		handler := newTestHandler(clock)
		body, err := json.Marshal(ExpenseDTO{
			Amount:      7300,
			Description: "dinner",
			Category:    "foodDining",
			Date:        "2026-08-01T19:30:00Z",
		})
		require.NoError(t, err)

		req := httptest.NewRequest("POST", "/api/expenses", bytes.NewReader(body))
		req = req.WithContext(session.WithSession(req.Context(), session.Session{
			Kind:     session.Remote,
			Identity: "user-1",
		}))
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code)
		var created ExpenseDTO
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
		assert.Equal(t, "2026-08-01T19:30:00Z", created.Date)
	})
}

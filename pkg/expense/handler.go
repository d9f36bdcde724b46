package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finvoice/finvoice/internal/utils"
	"github.com/finvoice/finvoice/pkg/session"
	"github.com/finvoice/finvoice/pkg/voice"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	ID          string  `json:"id,omitempty"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	VoiceInput  *string `json:"voiceInput,omitempty"`
	Date        string  `json:"date,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

type Handler struct {
	expenseService Service
	clock          utils.Clock
}

func NewHandler(expenseService Service, clock utils.Clock) *Handler {
	return &Handler{expenseService, clock}
}

func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	expenses, err := handler.expenseService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	expensesDTO := make([]ExpenseDTO, 0, len(expenses))
	for _, expense := range expenses {
		expensesDTO = append(expensesDTO, ExpenseToDTO(expense))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(expensesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new expense")
	w.Header().Set("Content-Type", "application/json")

	var expenseDTO ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&expenseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.expenseService.Create(r.Context(), DTOToExpense(expenseDTO, handler.clock.Now()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(*created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	expenseID := vars["id"]

	var expenseDTO ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&expenseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if expenseDTO.ID != "" && expenseDTO.ID != expenseID {
		http.Error(w, "Invalid expense id in request body", http.StatusBadRequest)
		return
	}
	expenseDTO.ID = expenseID

	updated, err := handler.expenseService.Update(r.Context(), DTOToExpense(expenseDTO, handler.clock.Now()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	if err := handler.expenseService.Delete(r.Context(), vars["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ExpenseToDTO(expense Expense) ExpenseDTO {
	dto := ExpenseDTO{
		ID:          expense.ID,
		Amount:      expense.Amount.InexactFloat64(),
		Description: expense.Description,
		Category:    string(expense.Category),
		VoiceInput:  expense.VoiceInput,
	}
	if !expense.Date.IsZero() {
		dto.Date = expense.Date.Format(time.RFC3339)
	}
	if !expense.CreatedAt.IsZero() {
		dto.CreatedAt = expense.CreatedAt.Format(time.RFC3339)
	}
	if !expense.UpdatedAt.IsZero() {
		dto.UpdatedAt = expense.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// DTOToExpense converts the wire representation; a missing or malformed
// date defaults to now.
func DTOToExpense(dto ExpenseDTO, now time.Time) Expense {
	expense := Expense{
		ID:          dto.ID,
		Amount:      decimal.NewFromFloat(dto.Amount),
		Description: dto.Description,
		Category:    voice.Category(dto.Category),
		VoiceInput:  dto.VoiceInput,
	}
	if t, err := time.Parse(time.RFC3339, dto.Date); err == nil {
		expense.Date = t
	} else {
		expense.Date = now
	}
	return expense
}

// writeServiceError maps the typed service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, session.ErrRemoteUnavailableOfflineMode):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidExpense):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrExpenseNotFound):
		http.Error(w, "Expense not found", http.StatusNotFound)
	case errors.Is(err, session.ErrRemoteWriteFailed), errors.Is(err, session.ErrRemoteReadFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

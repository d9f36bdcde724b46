package budget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finvoice/finvoice/pkg/session"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	ID          string             `json:"id,omitempty"`
	MonthYear   string             `json:"monthYear"`
	TotalAmount float64            `json:"totalAmount"`
	Categories  map[string]float64 `json:"categories,omitempty"`
	// Reconciled is set on upsert responses when the request updated an
	// existing month instead of creating a new one.
	Reconciled bool `json:"reconciled,omitempty"`
}

type Handler struct {
	budgetService Service
}

func NewHandler(budgetService Service) *Handler {
	return &Handler{budgetService}
}

func (handler *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	log.Debug("Upserting budget")
	w.Header().Set("Content-Type", "application/json")

	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := handler.budgetService.Upsert(r.Context(), DTOToBudget(budgetDTO))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responseDTO := BudgetToDTO(result.Budget)
	responseDTO.Reconciled = result.Reconciled
	if result.Reconciled {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusCreated)
	}
	if err := json.NewEncoder(w).Encode(responseDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if monthYear := r.URL.Query().Get("monthYear"); monthYear != "" {
		budget, err := handler.budgetService.GetByMonth(r.Context(), monthYear)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(BudgetToDTO(*budget)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	budgets, err := handler.budgetService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	budgetsDTO := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		budgetsDTO = append(budgetsDTO, BudgetToDTO(budget))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(budgetsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	budgetID := vars["id"]

	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if budgetDTO.ID != "" && budgetDTO.ID != budgetID {
		http.Error(w, "Invalid budget id in request body", http.StatusBadRequest)
		return
	}
	budgetDTO.ID = budgetID

	updated, err := handler.budgetService.Update(r.Context(), DTOToBudget(budgetDTO))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(BudgetToDTO(*updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	if err := handler.budgetService.Delete(r.Context(), vars["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func BudgetToDTO(budget Budget) BudgetDTO {
	dto := BudgetDTO{
		ID:          budget.ID,
		MonthYear:   budget.MonthYear,
		TotalAmount: budget.TotalAmount.InexactFloat64(),
	}
	if len(budget.Categories) > 0 {
		dto.Categories = make(map[string]float64, len(budget.Categories))
		for category, limit := range budget.Categories {
			dto.Categories[category] = limit.InexactFloat64()
		}
	}
	return dto
}

func DTOToBudget(dto BudgetDTO) Budget {
	budget := Budget{
		ID:          dto.ID,
		MonthYear:   dto.MonthYear,
		TotalAmount: decimal.NewFromFloat(dto.TotalAmount),
	}
	if len(dto.Categories) > 0 {
		budget.Categories = make(map[string]decimal.Decimal, len(dto.Categories))
		for category, limit := range dto.Categories {
			budget.Categories[category] = decimal.NewFromFloat(limit)
		}
	}
	return budget
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, session.ErrRemoteUnavailableOfflineMode):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidBudget):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrBudgetNotFound):
		http.Error(w, "Budget not found", http.StatusNotFound)
	case errors.Is(err, session.ErrRemoteWriteFailed), errors.Is(err, session.ErrRemoteReadFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

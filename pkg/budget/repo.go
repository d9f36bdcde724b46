package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finvoice/finvoice/internal/store"
	"github.com/finvoice/finvoice/internal/utils"
	"github.com/shopspring/decimal"
)

const budgetCollection = "budgets"

type Repo interface {
	Upsert(ctx context.Context, userID string, budget Budget) (*UpsertResult, error)
	GetAll(ctx context.Context, userID string) ([]Budget, error)
	FindByMonth(ctx context.Context, userID string, monthYear string) (*Budget, error)
	Update(ctx context.Context, userID string, budget Budget) (*Budget, error)
	Delete(ctx context.Context, userID string, budgetID string) error
}

type budgetRow struct {
	ID          string                     `json:"id,omitempty"`
	UserID      string                     `json:"user_id"`
	MonthYear   string                     `json:"month_year,omitempty"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	Categories  map[string]decimal.Decimal `json:"categories,omitempty"`
	CreatedAt   string                     `json:"created_at,omitempty"`
	UpdatedAt   string                     `json:"updated_at,omitempty"`
}

type RepoImpl struct {
	store store.Client
	clock utils.Clock
}

func NewRepo(storeClient store.Client, clock utils.Clock) *RepoImpl {
	return &RepoImpl{store: storeClient, clock: clock}
}

// Upsert inserts the month's budget, or, when the unique constraint over
// (user_id, month_year) rejects the insert, updates the existing row in
// place. Updating by the natural key instead of re-reading the row id keeps
// the duplicate path to a single round trip.
func (r *RepoImpl) Upsert(ctx context.Context, userID string, budget Budget) (*UpsertResult, error) {
	now := r.clock.Now().Format(time.RFC3339)
	row := budgetRow{
		UserID:      userID,
		MonthYear:   budget.MonthYear,
		TotalAmount: budget.TotalAmount,
		Categories:  budget.Categories,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created budgetRow
	err := r.store.Create(ctx, budgetCollection, row, &created)
	if err == nil {
		result := fromRow(created)
		return &UpsertResult{Budget: result}, nil
	}
	if !errors.Is(err, store.ErrDuplicateKey) {
		return nil, fmt.Errorf("failed to store budget: %w", err)
	}

	changes := budgetRow{
		UserID:      userID,
		MonthYear:   budget.MonthYear,
		TotalAmount: budget.TotalAmount,
		Categories:  budget.Categories,
		UpdatedAt:   now,
	}
	filter := store.Filter{"user_id": userID, "month_year": budget.MonthYear}
	var updated budgetRow
	if err := r.store.Update(ctx, budgetCollection, filter, changes, &updated); err != nil {
		return nil, fmt.Errorf("failed to update existing budget: %w", err)
	}
	result := fromRow(updated)
	return &UpsertResult{Budget: result, Reconciled: true}, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userID string) ([]Budget, error) {
	var rows []budgetRow
	err := r.store.ReadAll(ctx, budgetCollection, store.Filter{"user_id": userID}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budgets: %w", err)
	}
	budgets := make([]Budget, 0, len(rows))
	for _, row := range rows {
		budgets = append(budgets, fromRow(row))
	}
	return budgets, nil
}

func (r *RepoImpl) FindByMonth(ctx context.Context, userID string, monthYear string) (*Budget, error) {
	var row budgetRow
	filter := store.Filter{"user_id": userID, "month_year": monthYear}
	if err := r.store.ReadOne(ctx, budgetCollection, filter, &row); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to fetch budget: %w", err)
	}
	budget := fromRow(row)
	return &budget, nil
}

// Update rewrites the amount and category limits of an existing budget row
// addressed by id. The month is the row's natural key and stays untouched.
func (r *RepoImpl) Update(ctx context.Context, userID string, budget Budget) (*Budget, error) {
	changes := budgetRow{
		UserID:      userID,
		TotalAmount: budget.TotalAmount,
		Categories:  budget.Categories,
		UpdatedAt:   r.clock.Now().Format(time.RFC3339),
	}

	var updated budgetRow
	filter := store.Filter{"id": budget.ID, "user_id": userID}
	if err := r.store.Update(ctx, budgetCollection, filter, changes, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	result := fromRow(updated)
	return &result, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userID string, budgetID string) error {
	filter := store.Filter{"id": budgetID, "user_id": userID}
	if err := r.store.Delete(ctx, budgetCollection, filter); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

func fromRow(row budgetRow) Budget {
	budget := Budget{
		ID:          row.ID,
		UserID:      row.UserID,
		MonthYear:   row.MonthYear,
		TotalAmount: row.TotalAmount,
		Categories:  row.Categories,
	}
	if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		budget.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, row.UpdatedAt); err == nil {
		budget.UpdatedAt = t
	}
	return budget
}

package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
	ErrInvalidBudget  = errors.New("month and total amount are required")
)

// Budget is a per-user monthly spending plan. A user has at most one budget
// per month; the remote table enforces that with a unique constraint over
// (user_id, month_year).
type Budget struct {
	ID          string
	UserID      string
	// MonthYear is the month the budget covers, formatted "2006-01".
	MonthYear   string
	TotalAmount decimal.Decimal
	// Categories holds optional per-category limits keyed by category name.
	Categories  map[string]decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reconciled marks an upsert result that folded a duplicate create into an
// update of the month's existing row.
type UpsertResult struct {
	Budget     Budget
	Reconciled bool
}

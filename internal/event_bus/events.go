package event_bus

import "github.com/shopspring/decimal"

const (
	ExpenseCreatedEvent   EventType = "expense.created"
	BudgetReconciledEvent EventType = "budget.reconciled"
)

// ExpenseCreated is published after an expense commit lands, in either the
// remote store or the local cache.
type ExpenseCreated struct {
	ExpenseID string
	UserID    string
	Amount    decimal.Decimal
	Category  string
	// LocalOnly is true when the write went to the offline cache.
	LocalOnly bool
}

// BudgetReconciled is published when a duplicate budget create was folded
// into an update of the existing month's row.
type BudgetReconciled struct {
	BudgetID  string
	UserID    string
	MonthYear string
}

package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finvoice/finvoice/internal/store"
	"github.com/finvoice/finvoice/internal/utils"
	"github.com/finvoice/finvoice/pkg/voice"
	"github.com/shopspring/decimal"
)

const expenseCollection = "expenses"

// Repo is implemented by both the remote table client and the sqlite
// local cache so the service can route writes per session kind.
type Repo interface {
	Store(ctx context.Context, userID string, expense Expense) (*Expense, error)
	GetAll(ctx context.Context, userID string) ([]Expense, error)
	Update(ctx context.Context, userID string, expense Expense) (*Expense, error)
	Delete(ctx context.Context, userID string, expenseID string) error
}

type expenseRow struct {
	ID          string          `json:"id,omitempty"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	VoiceInput  *string         `json:"voice_input,omitempty"`
	Date        string          `json:"date"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

func toRow(expense Expense) expenseRow {
	return expenseRow{
		ID:          expense.ID,
		UserID:      expense.UserID,
		Amount:      expense.Amount,
		Description: expense.Description,
		Category:    string(expense.Category),
		VoiceInput:  expense.VoiceInput,
		Date:        expense.Date.Format(time.RFC3339),
	}
}

func fromRow(row expenseRow) Expense {
	expense := Expense{
		ID:          row.ID,
		UserID:      row.UserID,
		Amount:      row.Amount,
		Description: row.Description,
		Category:    voice.Category(row.Category),
		VoiceInput:  row.VoiceInput,
	}
	if t, err := time.Parse(time.RFC3339, row.Date); err == nil {
		expense.Date = t
	}
	if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		expense.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, row.UpdatedAt); err == nil {
		expense.UpdatedAt = t
	}
	return expense
}

// RemoteRepoImpl persists expenses in the hosted table store.
type RemoteRepoImpl struct {
	store store.Client
	clock utils.Clock
}

func NewRemoteRepo(storeClient store.Client, clock utils.Clock) *RemoteRepoImpl {
	return &RemoteRepoImpl{store: storeClient, clock: clock}
}

func (r *RemoteRepoImpl) Store(ctx context.Context, userID string, expense Expense) (*Expense, error) {
	row := toRow(expense)
	row.UserID = userID
	row.CreatedAt = r.clock.Now().Format(time.RFC3339)
	row.UpdatedAt = row.CreatedAt

	var stored expenseRow
	if err := r.store.Create(ctx, expenseCollection, row, &stored); err != nil {
		return nil, fmt.Errorf("failed to store expense: %w", err)
	}
	result := fromRow(stored)
	return &result, nil
}

func (r *RemoteRepoImpl) GetAll(ctx context.Context, userID string) ([]Expense, error) {
	var rows []expenseRow
	err := r.store.ReadAll(ctx, expenseCollection, store.Filter{"user_id": userID}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	expenses := make([]Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, fromRow(row))
	}
	return expenses, nil
}

func (r *RemoteRepoImpl) Update(ctx context.Context, userID string, expense Expense) (*Expense, error) {
	row := toRow(expense)
	row.ID = ""
	row.UserID = userID
	row.UpdatedAt = r.clock.Now().Format(time.RFC3339)

	var updated expenseRow
	filter := store.Filter{"id": expense.ID, "user_id": userID}
	if err := r.store.Update(ctx, expenseCollection, filter, row, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	result := fromRow(updated)
	return &result, nil
}

func (r *RemoteRepoImpl) Delete(ctx context.Context, userID string, expenseID string) error {
	filter := store.Filter{"id": expenseID, "user_id": userID}
	if err := r.store.Delete(ctx, expenseCollection, filter); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

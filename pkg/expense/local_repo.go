package expense

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/finvoice/finvoice/internal/utils"
	"github.com/finvoice/finvoice/pkg/voice"
	"github.com/shopspring/decimal"
)

// LocalRepoImpl persists expenses in the on-device sqlite cache. It backs
// local-only sessions, whose records never reach the remote store.
type LocalRepoImpl struct {
	db    *sql.DB
	clock utils.Clock
}

func NewLocalRepo(db *sql.DB, clock utils.Clock) *LocalRepoImpl {
	return &LocalRepoImpl{db: db, clock: clock}
}

func (r *LocalRepoImpl) Store(ctx context.Context, userID string, expense Expense) (*Expense, error) {
	now := r.clock.Now()
	if expense.ID == "" {
		// Bare millisecond id, deliberately without the identity prefix:
		// the prefix marks users, not records.
		expense.ID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	expense.UserID = userID
	expense.CreatedAt = now
	expense.UpdatedAt = now

	var voiceInput sql.NullString
	if expense.VoiceInput != nil {
		voiceInput = sql.NullString{String: *expense.VoiceInput, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO local_expense (id, user_id, amount, description, category, voice_input, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.UserID, expense.Amount.String(), expense.Description,
		string(expense.Category), voiceInput, expense.Date.Format(time.RFC3339),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *LocalRepoImpl) GetAll(ctx context.Context, userID string) ([]Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, description, category, voice_input, date, created_at, updated_at
		FROM local_expense WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *LocalRepoImpl) Update(ctx context.Context, userID string, expense Expense) (*Expense, error) {
	now := r.clock.Now()
	var voiceInput sql.NullString
	if expense.VoiceInput != nil {
		voiceInput = sql.NullString{String: *expense.VoiceInput, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE local_expense
		SET amount = ?, description = ?, category = ?, voice_input = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		expense.Amount.String(), expense.Description, string(expense.Category),
		voiceInput, expense.Date.Format(time.RFC3339), now.Format(time.RFC3339),
		expense.ID, userID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrExpenseNotFound
	}
	expense.UserID = userID
	expense.UpdatedAt = now
	return &expense, nil
}

func (r *LocalRepoImpl) Delete(ctx context.Context, userID string, expenseID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM local_expense WHERE id = ? AND user_id = ?`, expenseID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func scanExpense(rows *sql.Rows) (Expense, error) {
	var expense Expense
	var amount, category, date, createdAt, updatedAt string
	var voiceInput sql.NullString
	err := rows.Scan(&expense.ID, &expense.UserID, &amount, &expense.Description,
		&category, &voiceInput, &date, &createdAt, &updatedAt)
	if err != nil {
		return Expense{}, err
	}
	if expense.Amount, err = decimal.NewFromString(amount); err != nil {
		return Expense{}, err
	}
	expense.Category = voice.Category(category)
	if voiceInput.Valid {
		expense.VoiceInput = &voiceInput.String
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		expense.Date = t
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		expense.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		expense.UpdatedAt = t
	}
	return expense, nil
}

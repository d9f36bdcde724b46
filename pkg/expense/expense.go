package expense

import (
	"errors"
	"time"

	"github.com/finvoice/finvoice/pkg/voice"
	"github.com/shopspring/decimal"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidExpense  = errors.New("amount and description are required")
)

// Expense is a persisted spending record owned by exactly one user.
//
// Remote records carry server-assigned ids; records created under a
// local-only session carry a bare unix-millisecond id minted on the client
// side, keeping the two id spaces structurally distinct.
type Expense struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Description string
	Category    voice.Category
	// VoiceInput holds the raw spoken text when the expense came through
	// the voice pipeline, nil for manual entry.
	VoiceInput *string
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/finvoice/finvoice/internal/event_bus"
	"github.com/finvoice/finvoice/pkg/session"
	"github.com/finvoice/finvoice/pkg/voice"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Expense, error)
	Create(ctx context.Context, expense Expense) (*Expense, error)
	Update(ctx context.Context, expense Expense) (*Expense, error)
	Delete(ctx context.Context, expenseID string) error
}

// ServiceImpl routes expense operations per session kind: remote sessions
// hit the remote store, local-only sessions may create and read against the
// sqlite cache. There is no silent fallback between the two.
type ServiceImpl struct {
	remote Repo
	local  Repo
	bus    *event_bus.EventBus
}

func NewService(remote Repo, local Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{remote: remote, local: local, bus: bus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Expense, error) {
	current, err := session.RequireAny(ctx)
	if err != nil {
		return nil, err
	}
	if current.Kind == session.LocalOnly {
		return s.local.GetAll(ctx, current.Identity)
	}
	expenses, err := s.remote.GetAll(ctx, current.Identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrRemoteReadFailed, err)
	}
	return expenses, nil
}

// Create stores a new expense. This is the single operation permitted under
// a local-only session: the record goes to the cache with a locally minted
// id and stays there, it is never replayed to the remote store later.
func (s *ServiceImpl) Create(ctx context.Context, expense Expense) (*Expense, error) {
	current, err := session.RequireAny(ctx)
	if err != nil {
		return nil, err
	}
	if expense.Amount.IsZero() || expense.Amount.IsNegative() || expense.Description == "" {
		return nil, ErrInvalidExpense
	}
	if !voice.IsKnownCategory(expense.Category) {
		expense.Category = voice.CategoryOther
	}

	var stored *Expense
	if current.Kind == session.LocalOnly {
		stored, err = s.local.Store(ctx, current.Identity, expense)
		if err != nil {
			return nil, err
		}
	} else {
		stored, err = s.remote.Store(ctx, current.Identity, expense)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", session.ErrRemoteWriteFailed, err)
		}
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ExpenseCreatedEvent, event_bus.ExpenseCreated{
		ExpenseID: stored.ID,
		UserID:    stored.UserID,
		Amount:    stored.Amount,
		Category:  string(stored.Category),
		LocalOnly: current.Kind == session.LocalOnly,
	})); err != nil {
		log.Warnf("expense created event: %v", err)
	}
	return stored, nil
}

func (s *ServiceImpl) Update(ctx context.Context, expense Expense) (*Expense, error) {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return nil, err
	}
	if expense.Amount.IsZero() || expense.Amount.IsNegative() || expense.Description == "" {
		return nil, ErrInvalidExpense
	}
	if !voice.IsKnownCategory(expense.Category) {
		expense.Category = voice.CategoryOther
	}
	updated, err := s.remote.Update(ctx, current.Identity, expense)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", session.ErrRemoteWriteFailed, err)
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, expenseID string) error {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return err
	}
	if err := s.remote.Delete(ctx, current.Identity, expenseID); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", session.ErrRemoteWriteFailed, err)
	}
	return nil
}

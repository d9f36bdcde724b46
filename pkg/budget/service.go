package budget

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/finvoice/finvoice/internal/event_bus"
	"github.com/finvoice/finvoice/pkg/session"
	log "github.com/sirupsen/logrus"
)

var monthYearFormat = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service interface {
	Upsert(ctx context.Context, budget Budget) (*UpsertResult, error)
	GetAll(ctx context.Context) ([]Budget, error)
	GetByMonth(ctx context.Context, monthYear string) (*Budget, error)
	Update(ctx context.Context, budget Budget) (*Budget, error)
	Delete(ctx context.Context, budgetID string) error
}

// ServiceImpl manages monthly budgets. Budgets live only in the remote
// store; local-only sessions cannot create or read them.
type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) Upsert(ctx context.Context, budget Budget) (*UpsertResult, error) {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return nil, err
	}
	if !monthYearFormat.MatchString(budget.MonthYear) || budget.TotalAmount.IsZero() || budget.TotalAmount.IsNegative() {
		return nil, ErrInvalidBudget
	}

	result, err := s.repo.Upsert(ctx, current.Identity, budget)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrRemoteWriteFailed, err)
	}
	if result.Reconciled {
		if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetReconciledEvent, event_bus.BudgetReconciled{
			BudgetID:  result.Budget.ID,
			UserID:    result.Budget.UserID,
			MonthYear: result.Budget.MonthYear,
		})); err != nil {
			log.Warnf("budget reconciled event: %v", err)
		}
	}
	return result, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Budget, error) {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return nil, err
	}
	budgets, err := s.repo.GetAll(ctx, current.Identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrRemoteReadFailed, err)
	}
	return budgets, nil
}

func (s *ServiceImpl) GetByMonth(ctx context.Context, monthYear string) (*Budget, error) {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return nil, err
	}
	if !monthYearFormat.MatchString(monthYear) {
		return nil, ErrInvalidBudget
	}
	budget, err := s.repo.FindByMonth(ctx, current.Identity, monthYear)
	if err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", session.ErrRemoteReadFailed, err)
	}
	return budget, nil
}

// Update changes the amount and category limits of an existing budget
// addressed by id; the month it covers cannot be moved.
func (s *ServiceImpl) Update(ctx context.Context, budget Budget) (*Budget, error) {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return nil, err
	}
	if budget.ID == "" || budget.TotalAmount.IsZero() || budget.TotalAmount.IsNegative() {
		return nil, ErrInvalidBudget
	}
	updated, err := s.repo.Update(ctx, current.Identity, budget)
	if err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", session.ErrRemoteWriteFailed, err)
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, budgetID string) error {
	current, err := session.RequireRemote(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, current.Identity, budgetID); err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", session.ErrRemoteWriteFailed, err)
	}
	return nil
}

package budget

import (
	"context"
	"strconv"
)

// StubRepo is an in-memory Repo for tests. It enforces the one-budget-per-
// month rule the same way the remote table does, by reconciling duplicates.
type StubRepo struct {
	budgets map[string][]Budget
	nextID  int

	FailAll error
}

func NewStubRepo() *StubRepo {
	return &StubRepo{budgets: map[string][]Budget{}}
}

func (s *StubRepo) Upsert(_ context.Context, userID string, budget Budget) (*UpsertResult, error) {
	if s.FailAll != nil {
		return nil, s.FailAll
	}
	for i, existing := range s.budgets[userID] {
		if existing.MonthYear == budget.MonthYear {
			budget.ID = existing.ID
			budget.UserID = userID
			s.budgets[userID][i] = budget
			return &UpsertResult{Budget: budget, Reconciled: true}, nil
		}
	}
	s.nextID++
	budget.ID = "budget-" + strconv.Itoa(s.nextID)
	budget.UserID = userID
	s.budgets[userID] = append(s.budgets[userID], budget)
	return &UpsertResult{Budget: budget}, nil
}

func (s *StubRepo) GetAll(_ context.Context, userID string) ([]Budget, error) {
	if s.FailAll != nil {
		return nil, s.FailAll
	}
	return s.budgets[userID], nil
}

func (s *StubRepo) FindByMonth(_ context.Context, userID string, monthYear string) (*Budget, error) {
	if s.FailAll != nil {
		return nil, s.FailAll
	}
	for _, existing := range s.budgets[userID] {
		if existing.MonthYear == monthYear {
			found := existing
			return &found, nil
		}
	}
	return nil, ErrBudgetNotFound
}

func (s *StubRepo) Update(_ context.Context, userID string, budget Budget) (*Budget, error) {
	if s.FailAll != nil {
		return nil, s.FailAll
	}
	for i, existing := range s.budgets[userID] {
		if existing.ID == budget.ID {
			existing.TotalAmount = budget.TotalAmount
			existing.Categories = budget.Categories
			s.budgets[userID][i] = existing
			return &existing, nil
		}
	}
	return nil, ErrBudgetNotFound
}

func (s *StubRepo) Delete(_ context.Context, userID string, budgetID string) error {
	if s.FailAll != nil {
		return s.FailAll
	}
	for i, existing := range s.budgets[userID] {
		if existing.ID == budgetID {
			s.budgets[userID] = append(s.budgets[userID][:i], s.budgets[userID][i+1:]...)
			return nil
		}
	}
	return ErrBudgetNotFound
}

package expense

import (
	"context"
	"strconv"
)

// StubRepo is an in-memory Repo for tests.
type StubRepo struct {
	expenses map[string][]Expense
	nextID   int

	// FailAll makes every operation return the given error.
	FailAll error
}

func NewStubRepo() *StubRepo {
	return &StubRepo{expenses: map[string][]Expense{}}
}

func (s *StubRepo) Store(_ context.Context, userID string, expense Expense) (*Expense, error) {
	if s.FailAll != nil {
		return nil, s.FailAll
	}
	if expense.ID == "" {
		s.nextID++
		expense.ID = "expense-" + strconv.Itoa(s.nextID)
	}
	expense.UserID = userID
	s.expenses[userID] = append(s.expenses[userID], expense)
	return &expense, nil
}

func (s *StubRepo) GetAll(_ context.Context, userID string) ([]Expense, error) {
	if s.FailAll != nil {
		return nil, s.FailAll
	}
	return s.expenses[userID], nil
}

func (s *StubRepo) Update(_ context.Context, userID string, expense Expense) (*Expense, error) {
	if s.FailAll != nil {
		return nil, s.FailAll
	}
	for i, existing := range s.expenses[userID] {
		if existing.ID == expense.ID {
			expense.UserID = userID
			s.expenses[userID][i] = expense
			return &expense, nil
		}
	}
	return nil, ErrExpenseNotFound
}

func (s *StubRepo) Delete(_ context.Context, userID string, expenseID string) error {
	if s.FailAll != nil {
		return s.FailAll
	}
	for i, existing := range s.expenses[userID] {
		if existing.ID == expenseID {
			s.expenses[userID] = append(s.expenses[userID][:i], s.expenses[userID][i+1:]...)
			return nil
		}
	}
	return ErrExpenseNotFound
}

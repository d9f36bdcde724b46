package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/finvoice/finvoice/internal/event_bus"
	"github.com/finvoice/finvoice/pkg/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteCtx(identity string) context.Context {
	return session.WithSession(context.Background(), session.Session{
		Kind:     session.Remote,
		Identity: identity,
	})
}

func validBudget() Budget {
	return Budget{
		MonthYear:   "2026-08",
		TotalAmount: decimal.NewFromInt(50000),
		Categories: map[string]decimal.Decimal{
			"foodDining":     decimal.NewFromInt(15000),
			"transportation": decimal.NewFromInt(5000),
		},
	}
}

func TestUpsert(t *testing.T) {
	t.Run("first upsert creates the month's budget", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		result, err := service.Upsert(remoteCtx("user-1"), validBudget())

		require.NoError(t, err)
		assert.False(t, result.Reconciled)
		assert.NotEmpty(t, result.Budget.ID)
		assert.Equal(t, "user-1", result.Budget.UserID)
	})

	t.Run("second upsert for the same month reconciles in place", func(t *testing.T) {
		repo := NewStubRepo()
		service := NewService(repo, event_bus.NewEventBus())
		first, err := service.Upsert(remoteCtx("user-1"), validBudget())
		require.NoError(t, err)

		changed := validBudget()
		changed.TotalAmount = decimal.NewFromInt(60000)
		second, err := service.Upsert(remoteCtx("user-1"), changed)

		require.NoError(t, err)
		assert.True(t, second.Reconciled)
		assert.Equal(t, first.Budget.ID, second.Budget.ID)

		budgets, err := service.GetAll(remoteCtx("user-1"))
		require.NoError(t, err)
		require.Len(t, budgets, 1)
		assert.True(t, budgets[0].TotalAmount.Equal(decimal.NewFromInt(60000)))
	})

	t.Run("reconciliation publishes an event", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		service := NewService(NewStubRepo(), bus)

		var received []event_bus.BudgetReconciled
		unsubscribe := event_bus.SubscribeTyped[event_bus.BudgetReconciled](bus, event_bus.BudgetReconciledEvent,
			func(e event_bus.EventT[event_bus.BudgetReconciled]) error {
				received = append(received, e.Data)
				return nil
			})
		defer unsubscribe()

		_, err := service.Upsert(remoteCtx("user-1"), validBudget())
		require.NoError(t, err)
		assert.Empty(t, received)

		_, err = service.Upsert(remoteCtx("user-1"), validBudget())
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, "2026-08", received[0].MonthYear)
	})

	t.Run("same month for different users does not reconcile", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		first, err := service.Upsert(remoteCtx("user-1"), validBudget())
		require.NoError(t, err)
		second, err := service.Upsert(remoteCtx("user-2"), validBudget())
		require.NoError(t, err)

		assert.False(t, second.Reconciled)
		assert.NotEqual(t, first.Budget.ID, second.Budget.ID)
	})

	t.Run("rejects malformed month or non-positive amount", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		badMonth := validBudget()
		badMonth.MonthYear = "August 2026"
		_, err := service.Upsert(remoteCtx("user-1"), badMonth)
		assert.ErrorIs(t, err, ErrInvalidBudget)

		badAmount := validBudget()
		badAmount.TotalAmount = decimal.Zero
		_, err = service.Upsert(remoteCtx("user-1"), badAmount)
		assert.ErrorIs(t, err, ErrInvalidBudget)
	})

	t.Run("local-only session cannot manage budgets", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())
		ctx := session.WithSession(context.Background(), session.Session{
			Kind:     session.LocalOnly,
			Identity: "local_1",
		})

		_, err := service.Upsert(ctx, validBudget())
		assert.ErrorIs(t, err, session.ErrRemoteUnavailableOfflineMode)

		_, err = service.GetAll(ctx)
		assert.ErrorIs(t, err, session.ErrRemoteUnavailableOfflineMode)
	})

	t.Run("remote failure is typed", func(t *testing.T) {
		repo := NewStubRepo()
		repo.FailAll = errors.New("store unreachable")
		service := NewService(repo, event_bus.NewEventBus())

		_, err := service.Upsert(remoteCtx("user-1"), validBudget())

		assert.ErrorIs(t, err, session.ErrRemoteWriteFailed)
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("rewrites amount and limits without moving the month", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())
		created, err := service.Upsert(remoteCtx("user-1"), validBudget())
		require.NoError(t, err)

		changed := created.Budget
		changed.TotalAmount = decimal.NewFromInt(70000)
		changed.Categories = map[string]decimal.Decimal{"travel": decimal.NewFromInt(20000)}
		updated, err := service.Update(remoteCtx("user-1"), changed)

		require.NoError(t, err)
		assert.Equal(t, created.Budget.ID, updated.ID)
		assert.Equal(t, "2026-08", updated.MonthYear)
		assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(70000)))
		assert.True(t, updated.Categories["travel"].Equal(decimal.NewFromInt(20000)))
	})

	t.Run("updating a missing budget reports not found", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		_, err := service.Update(remoteCtx("user-1"), Budget{
			ID: "does-not-exist", TotalAmount: decimal.NewFromInt(1),
		})

		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})

	t.Run("cannot update another user's budget", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())
		created, err := service.Upsert(remoteCtx("user-1"), validBudget())
		require.NoError(t, err)

		changed := created.Budget
		changed.TotalAmount = decimal.NewFromInt(1)
		_, err = service.Update(remoteCtx("user-2"), changed)

		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})

	t.Run("missing id or non-positive amount is rejected", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		_, err := service.Update(remoteCtx("user-1"), Budget{TotalAmount: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrInvalidBudget)

		_, err = service.Update(remoteCtx("user-1"), Budget{ID: "budget-1", TotalAmount: decimal.Zero})
		assert.ErrorIs(t, err, ErrInvalidBudget)
	})

	t.Run("local-only session cannot update", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())
		ctx := session.WithSession(context.Background(), session.Session{
			Kind:     session.LocalOnly,
			Identity: "local_1",
		})

		_, err := service.Update(ctx, Budget{ID: "budget-1", TotalAmount: decimal.NewFromInt(1)})

		assert.ErrorIs(t, err, session.ErrRemoteUnavailableOfflineMode)
	})
}

func TestGetByMonth(t *testing.T) {
	t.Run("finds the stored month", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())
		_, err := service.Upsert(remoteCtx("user-1"), validBudget())
		require.NoError(t, err)

		budget, err := service.GetByMonth(remoteCtx("user-1"), "2026-08")

		require.NoError(t, err)
		assert.True(t, budget.TotalAmount.Equal(decimal.NewFromInt(50000)))
	})

	t.Run("missing month reports not found", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		_, err := service.GetByMonth(remoteCtx("user-1"), "2026-01")

		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})
}

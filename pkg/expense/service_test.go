package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finvoice/finvoice/internal/event_bus"
	"github.com/finvoice/finvoice/pkg/session"
	"github.com/finvoice/finvoice/pkg/voice"
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

func localCtx(identity string) context.Context {
	return session.WithSession(context.Background(), session.Session{
		Kind:     session.LocalOnly,
		Identity: identity,
	})
}

func validExpense() Expense {
	return Expense{
		Amount:      decimal.NewFromInt(7300),
		Description: "dinner",
		Category:    voice.CategoryFoodDining,
		Date:        time.Date(2026, time.August, 30, 20, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	t.Run("remote session writes to the remote store", func(t *testing.T) {
		remote := NewStubRepo()
		local := NewStubRepo()
		service := NewService(remote, local, event_bus.NewEventBus())

		created, err := service.Create(remoteCtx("user-1"), validExpense())

		require.NoError(t, err)
		assert.Equal(t, "user-1", created.UserID)
		remoteStored, _ := remote.GetAll(context.Background(), "user-1")
		localStored, _ := local.GetAll(context.Background(), "user-1")
		assert.Len(t, remoteStored, 1)
		assert.Empty(t, localStored)
	})

	t.Run("local-only session writes to the cache", func(t *testing.T) {
		remote := NewStubRepo()
		local := NewStubRepo()
		service := NewService(remote, local, event_bus.NewEventBus())

		created, err := service.Create(localCtx("local_1756500000000"), validExpense())

		require.NoError(t, err)
		assert.Equal(t, "local_1756500000000", created.UserID)
		remoteStored, _ := remote.GetAll(context.Background(), "local_1756500000000")
		localStored, _ := local.GetAll(context.Background(), "local_1756500000000")
		assert.Empty(t, remoteStored)
		assert.Len(t, localStored, 1)
	})

	t.Run("unauthenticated create is rejected with no side effect", func(t *testing.T) {
		remote := NewStubRepo()
		local := NewStubRepo()
		service := NewService(remote, local, event_bus.NewEventBus())

		_, err := service.Create(context.Background(), validExpense())

		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
		assert.Empty(t, remote.expenses)
		assert.Empty(t, local.expenses)
	})

	t.Run("remote write failure surfaces, no local fallback", func(t *testing.T) {
		remote := NewStubRepo()
		remote.FailAll = errors.New("store unreachable")
		local := NewStubRepo()
		service := NewService(remote, local, event_bus.NewEventBus())

		_, err := service.Create(remoteCtx("user-1"), validExpense())

		assert.ErrorIs(t, err, session.ErrRemoteWriteFailed)
		localStored, _ := local.GetAll(context.Background(), "user-1")
		assert.Empty(t, localStored)
	})

	t.Run("unknown category is normalized to other", func(t *testing.T) {
		service := NewService(NewStubRepo(), NewStubRepo(), event_bus.NewEventBus())
		expense := validExpense()
		expense.Category = "groceries"

		created, err := service.Create(remoteCtx("user-1"), expense)

		require.NoError(t, err)
		assert.Equal(t, voice.CategoryOther, created.Category)
	})

	t.Run("invalid amount or description is rejected", func(t *testing.T) {
		service := NewService(NewStubRepo(), NewStubRepo(), event_bus.NewEventBus())

		missingAmount := validExpense()
		missingAmount.Amount = decimal.Zero
		_, err := service.Create(remoteCtx("user-1"), missingAmount)
		assert.ErrorIs(t, err, ErrInvalidExpense)

		missingDescription := validExpense()
		missingDescription.Description = ""
		_, err = service.Create(remoteCtx("user-1"), missingDescription)
		assert.ErrorIs(t, err, ErrInvalidExpense)
	})

	t.Run("publishes expense created event", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		service := NewService(NewStubRepo(), NewStubRepo(), bus)

		var received []event_bus.ExpenseCreated
		unsubscribe := event_bus.SubscribeTyped[event_bus.ExpenseCreated](bus, event_bus.ExpenseCreatedEvent,
			func(e event_bus.EventT[event_bus.ExpenseCreated]) error {
				received = append(received, e.Data)
				return nil
			})
		defer unsubscribe()

		created, err := service.Create(localCtx("local_1"), validExpense())

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, created.ID, received[0].ExpenseID)
		assert.True(t, received[0].LocalOnly)
	})
}

func TestGetAll(t *testing.T) {
	t.Run("local-only session reads the cache", func(t *testing.T) {
		remote := NewStubRepo()
		local := NewStubRepo()
		_, err := local.Store(context.Background(), "local_1", validExpense())
		require.NoError(t, err)
		service := NewService(remote, local, event_bus.NewEventBus())

		expenses, err := service.GetAll(localCtx("local_1"))

		require.NoError(t, err)
		assert.Len(t, expenses, 1)
	})

	t.Run("remote read failure is typed", func(t *testing.T) {
		remote := NewStubRepo()
		remote.FailAll = errors.New("store unreachable")
		service := NewService(remote, NewStubRepo(), event_bus.NewEventBus())

		_, err := service.GetAll(remoteCtx("user-1"))

		assert.ErrorIs(t, err, session.ErrRemoteReadFailed)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("local-only session cannot update", func(t *testing.T) {
		service := NewService(NewStubRepo(), NewStubRepo(), event_bus.NewEventBus())
		expense := validExpense()
		expense.ID = "123"

		_, err := service.Update(localCtx("local_1"), expense)

		assert.ErrorIs(t, err, session.ErrRemoteUnavailableOfflineMode)
	})

	t.Run("updating a missing expense reports not found", func(t *testing.T) {
		service := NewService(NewStubRepo(), NewStubRepo(), event_bus.NewEventBus())
		expense := validExpense()
		expense.ID = "does-not-exist"

		_, err := service.Update(remoteCtx("user-1"), expense)

		assert.ErrorIs(t, err, ErrExpenseNotFound)
	})

	t.Run("remote session updates its own expense", func(t *testing.T) {
		remote := NewStubRepo()
		stored, err := remote.Store(context.Background(), "user-1", validExpense())
		require.NoError(t, err)
		service := NewService(remote, NewStubRepo(), event_bus.NewEventBus())

		changed := *stored
		changed.Description = "team dinner"
		updated, err := service.Update(remoteCtx("user-1"), changed)

		require.NoError(t, err)
		assert.Equal(t, "team dinner", updated.Description)
	})

	t.Run("cannot update another user's expense", func(t *testing.T) {
		remote := NewStubRepo()
		stored, err := remote.Store(context.Background(), "user-1", validExpense())
		require.NoError(t, err)
		service := NewService(remote, NewStubRepo(), event_bus.NewEventBus())

		changed := *stored
		changed.Description = "hijacked"
		_, err = service.Update(remoteCtx("user-2"), changed)

		assert.ErrorIs(t, err, ErrExpenseNotFound)
	})
}

func TestDelete(t *testing.T) {
	t.Run("local-only session cannot delete", func(t *testing.T) {
		service := NewService(NewStubRepo(), NewStubRepo(), event_bus.NewEventBus())

		err := service.Delete(localCtx("local_1"), "123")

		assert.ErrorIs(t, err, session.ErrRemoteUnavailableOfflineMode)
	})

	t.Run("remote session deletes its own expense", func(t *testing.T) {
		remote := NewStubRepo()
		stored, err := remote.Store(context.Background(), "user-1", validExpense())
		require.NoError(t, err)
		service := NewService(remote, NewStubRepo(), event_bus.NewEventBus())

		require.NoError(t, service.Delete(remoteCtx("user-1"), stored.ID))

		remaining, _ := remote.GetAll(context.Background(), "user-1")
		assert.Empty(t, remaining)
	})
}

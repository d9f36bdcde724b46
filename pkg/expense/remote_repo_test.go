package expense

import (
	"context"
	"testing"
	"time"

	"github.com/finvoice/finvoice/internal/store"
	"github.com/finvoice/finvoice/internal/utils"
	"github.com/finvoice/finvoice/pkg/voice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteRepo(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	t.Run("create assigns an id and round-trips", func(t *testing.T) {
		client := store.NewStubClient()
		repo := NewRemoteRepo(client, &utils.MockClock{FixedNow: now})

		stored, err := repo.Store(ctx, "user-1", Expense{
			Amount:      decimal.NewFromInt(7300),
			Description: "dinner",
			Category:    voice.CategoryFoodDining,
			Date:        now,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)
		assert.Equal(t, "user-1", stored.UserID)

		expenses, err := repo.GetAll(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(7300)))
		assert.Equal(t, voice.CategoryFoodDining, expenses[0].Category)
	})

	t.Run("update is scoped to the owner", func(t *testing.T) {
		client := store.NewStubClient()
		repo := NewRemoteRepo(client, &utils.MockClock{FixedNow: now})
		stored, err := repo.Store(ctx, "user-1", Expense{
			Amount: decimal.NewFromInt(100), Description: "coffee", Category: voice.CategoryFoodDining, Date: now,
		})
		require.NoError(t, err)

		_, err = repo.Update(ctx, "user-2", *stored)
		assert.ErrorIs(t, err, ErrExpenseNotFound)

		changed := *stored
		changed.Description = "espresso"
		updated, err := repo.Update(ctx, "user-1", changed)
		require.NoError(t, err)
		assert.Equal(t, "espresso", updated.Description)
		assert.Equal(t, stored.ID, updated.ID)
	})

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		client := store.NewStubClient()
		repo := NewRemoteRepo(client, &utils.MockClock{FixedNow: now})
		stored, err := repo.Store(ctx, "user-1", Expense{
			Amount: decimal.NewFromInt(100), Description: "coffee", Category: voice.CategoryFoodDining, Date: now,
		})
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Delete(ctx, "user-2", stored.ID), ErrExpenseNotFound)
		assert.NoError(t, repo.Delete(ctx, "user-1", stored.ID))
	})
}

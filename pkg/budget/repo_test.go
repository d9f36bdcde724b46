package budget

import (
	"context"
	"testing"
	"time"

	"github.com/finvoice/finvoice/internal/store"
	"github.com/finvoice/finvoice/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoUpsert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	newRepo := func() (*RepoImpl, *store.StubClient) {
		client := store.NewStubClient()
		client.Unique("budgets", "user_id", "month_year")
		return NewRepo(client, &utils.MockClock{FixedNow: now}), client
	}

	t.Run("duplicate insert is folded into an update", func(t *testing.T) {
		repo, _ := newRepo()

		first, err := repo.Upsert(ctx, "user-1", Budget{
			MonthYear: "2026-08", TotalAmount: decimal.NewFromInt(50000),
		})
		require.NoError(t, err)
		assert.False(t, first.Reconciled)

		second, err := repo.Upsert(ctx, "user-1", Budget{
			MonthYear: "2026-08", TotalAmount: decimal.NewFromInt(60000),
		})
		require.NoError(t, err)
		assert.True(t, second.Reconciled)
		assert.Equal(t, first.Budget.ID, second.Budget.ID)

		// Exactly one row for the month survives.
		budgets, err := repo.GetAll(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, budgets, 1)
		assert.True(t, budgets[0].TotalAmount.Equal(decimal.NewFromInt(60000)))
	})

	t.Run("different months insert independently", func(t *testing.T) {
		repo, _ := newRepo()

		_, err := repo.Upsert(ctx, "user-1", Budget{MonthYear: "2026-08", TotalAmount: decimal.NewFromInt(1)})
		require.NoError(t, err)
		result, err := repo.Upsert(ctx, "user-1", Budget{MonthYear: "2026-09", TotalAmount: decimal.NewFromInt(2)})
		require.NoError(t, err)

		assert.False(t, result.Reconciled)
	})

	t.Run("unreachable store surfaces the error", func(t *testing.T) {
		repo, client := newRepo()
		client.FailWrites = true

		_, err := repo.Upsert(ctx, "user-1", Budget{MonthYear: "2026-08", TotalAmount: decimal.NewFromInt(1)})

		assert.ErrorIs(t, err, store.ErrUnavailable)
	})
}

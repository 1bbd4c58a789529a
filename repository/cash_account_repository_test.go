package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collector/models"
	"collector/repository/testutil"
)

func TestCashAccountRepository_Debit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCashAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("deducts from the balance", func(t *testing.T) {
		account := testutil.CreateTestCashAccount(t, testDB.DB, 1, 1000)

		require.NoError(t, repo.Debit(ctx, account.ID, decimal.NewFromInt(300)))

		updated, err := repo.GetByLead(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(700)))
	})

	t.Run("insufficient balance leaves the account untouched", func(t *testing.T) {
		account := testutil.CreateTestCashAccount(t, testDB.DB, 2, 100)

		err := repo.Debit(ctx, account.ID, decimal.NewFromInt(500))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient")

		unchanged, err := repo.GetByLead(ctx, 2)
		require.NoError(t, err)
		assert.True(t, unchanged.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		account := testutil.CreateTestCashAccount(t, testDB.DB, 3, 100)
		assert.Error(t, repo.Debit(ctx, account.ID, decimal.Zero))
	})

	t.Run("unknown account", func(t *testing.T) {
		assert.Error(t, repo.Debit(ctx, 99999, decimal.NewFromInt(1)))
	})
}

func TestCashAccountRepository_GetByLead(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCashAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no account", func(t *testing.T) {
		account, err := repo.GetByLead(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestFineRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewFineRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.CreateTestCashAccount(t, testDB.DB, 1, 1000)

	fine := &models.Fine{
		AccountID: account.ID,
		LeadID:    1,
		Day:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(50),
		Reason:    "missing receipts",
	}

	require.NoError(t, repo.Create(ctx, fine))
	assert.NotZero(t, fine.ID)
	assert.False(t, fine.CreatedAt.IsZero())
}

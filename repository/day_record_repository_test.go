package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collector/repository/testutil"
)

func TestDayRecordRepository_GetByLeadAndDay(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDayRecordRepository(testDB.DB)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("no record found", func(t *testing.T) {
		record, err := repo.GetByLeadAndDay(ctx, 1, day)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("record found", func(t *testing.T) {
		original := testutil.CreateTestDayRecord(1, day)
		require.NoError(t, repo.Create(ctx, original))

		record, err := repo.GetByLeadAndDay(ctx, 1, day)
		require.NoError(t, err)
		require.NotNil(t, record)

		assert.Equal(t, original.ID, record.ID)
		assert.Equal(t, int64(1), record.LeadID)
		assert.True(t, record.PaidAmount.Equal(original.PaidAmount))
		assert.True(t, record.CashAmount.Equal(original.CashAmount))
		assert.True(t, record.BankAmount.Equal(original.BankAmount))
		assert.Equal(t, day.Format("2006-01-02"), record.Day.Format("2006-01-02"))
	})

	t.Run("another lead on the same day is separate", func(t *testing.T) {
		record, err := repo.GetByLeadAndDay(ctx, 2, day)
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestDayRecordRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDayRecordRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation fills id and timestamps", func(t *testing.T) {
		day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
		record := testutil.CreateTestDayRecord(1, day)

		require.NoError(t, repo.Create(ctx, record))

		assert.NotZero(t, record.ID)
		assert.False(t, record.CreatedAt.IsZero())
		assert.False(t, record.UpdatedAt.IsZero())
	})

	t.Run("one record per lead and day", func(t *testing.T) {
		day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, testutil.CreateTestDayRecord(1, day)))

		err := repo.Create(ctx, testutil.CreateTestDayRecord(1, day))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unique") // PostgreSQL unique constraint error
	})
}

func TestDayRecordRepository_UpdateTotals(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDayRecordRepository(testDB.DB)
	ctx := context.Background()

	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("rewrites the totals", func(t *testing.T) {
		record := testutil.CreateTestDayRecord(1, day)
		require.NoError(t, repo.Create(ctx, record))

		err := repo.UpdateTotals(ctx, record.ID,
			decimal.NewFromInt(1200), decimal.NewFromInt(900), decimal.NewFromInt(300))
		require.NoError(t, err)

		updated, err := repo.GetByLeadAndDay(ctx, 1, day)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(1200)))
		assert.True(t, updated.CashAmount.Equal(decimal.NewFromInt(900)))
		assert.True(t, updated.BankAmount.Equal(decimal.NewFromInt(300)))
		// The expected amount is untouched by a totals rewrite
		assert.True(t, updated.ExpectedAmount.Equal(record.ExpectedAmount))
	})

	t.Run("missing record", func(t *testing.T) {
		err := repo.UpdateTotals(ctx, 99999,
			decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

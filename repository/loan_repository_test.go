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

func TestLoanRepository_GetRosterForDay(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLoanRepository(testDB.DB)
	dayRecordRepo := NewDayRecordRepository(testDB.DB)
	paymentRepo := NewPaymentRepository(testDB.DB)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	loan1 := testutil.CreateTestLoan(t, testDB.DB, 1, "Maria Gonzalez", 500, 20)
	loan2 := testutil.CreateTestLoan(t, testDB.DB, 1, "Jose Ramirez", 300, 10)
	testutil.CreateTestLoan(t, testDB.DB, 2, "Other Lead", 400, 15)

	t.Run("returns only the lead's loans in id order", func(t *testing.T) {
		loans, err := repo.GetRosterForDay(ctx, 1, day)
		require.NoError(t, err)
		require.Len(t, loans, 2)

		assert.Equal(t, loan1.ID, loans[0].ID)
		assert.Equal(t, "Maria Gonzalez", loans[0].Borrower)
		assert.True(t, loans[0].ExpectedWeeklyPayment.Equal(decimal.NewFromInt(500)))
		assert.True(t, loans[0].CommissionRate.Equal(decimal.NewFromInt(20)))
		assert.Nil(t, loans[0].Committed)

		assert.Equal(t, loan2.ID, loans[1].ID)
	})

	t.Run("attaches the day's committed payment", func(t *testing.T) {
		record := testutil.CreateTestDayRecord(1, day)
		require.NoError(t, dayRecordRepo.Create(ctx, record))
		require.NoError(t, paymentRepo.CreateBatch(ctx, record.ID, []*models.NewPayment{
			{
				LoanID:     loan1.ID,
				Amount:     decimal.NewFromInt(500),
				Commission: decimal.NewFromInt(20),
				Method:     models.PaymentMethodCash,
			},
		}))

		loans, err := repo.GetRosterForDay(ctx, 1, day)
		require.NoError(t, err)
		require.Len(t, loans, 2)

		require.NotNil(t, loans[0].Committed)
		assert.Equal(t, record.ID, loans[0].Committed.DayRecordID)
		assert.Equal(t, loan1.ID, loans[0].Committed.LoanID)
		assert.True(t, loans[0].Committed.Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, models.PaymentMethodCash, loans[0].Committed.Method)

		assert.Nil(t, loans[1].Committed)
	})

	t.Run("another day carries no committed payments", func(t *testing.T) {
		loans, err := repo.GetRosterForDay(ctx, 1, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, loans, 2)
		assert.Nil(t, loans[0].Committed)
		assert.Nil(t, loans[1].Committed)
	})

	t.Run("inactive loans are excluded", func(t *testing.T) {
		_, err := testDB.DB.Exec(ctx, "UPDATE loans SET active = FALSE WHERE id = $1", loan2.ID)
		require.NoError(t, err)

		loans, err := repo.GetRosterForDay(ctx, 1, day)
		require.NoError(t, err)
		require.Len(t, loans, 1)
		assert.Equal(t, loan1.ID, loans[0].ID)
	})

	t.Run("unknown lead has an empty roster", func(t *testing.T) {
		loans, err := repo.GetRosterForDay(ctx, 99, day)
		require.NoError(t, err)
		assert.Empty(t, loans)
	})
}

func TestLoanRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLoanRepository(testDB.DB)
	ctx := context.Background()

	t.Run("loan found", func(t *testing.T) {
		created := testutil.CreateTestLoan(t, testDB.DB, 1, "Maria Gonzalez", 500, 20)

		loan, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, loan)
		assert.Equal(t, "Maria Gonzalez", loan.Borrower)
		assert.True(t, loan.Active)
	})

	t.Run("loan not found", func(t *testing.T) {
		loan, err := repo.GetByID(ctx, 99999)
		require.NoError(t, err)
		assert.Nil(t, loan)
	})
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"collector/database"
	"collector/models"
)

// CreateTestLoan creates a loan row and returns it with its generated ID
func CreateTestLoan(t *testing.T, db *database.DB, leadID int64, borrower string, weekly, rate int64) *models.Loan {
	t.Helper()
	loan := &models.Loan{
		LeadID:                leadID,
		Borrower:              borrower,
		ExpectedWeeklyPayment: decimal.NewFromInt(weekly),
		CommissionRate:        decimal.NewFromInt(rate),
		Active:                true,
	}
	err := db.QueryRow(context.Background(), `
		INSERT INTO loans (lead_id, borrower, expected_weekly_payment, commission_rate)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, loan.LeadID, loan.Borrower, loan.ExpectedWeeklyPayment, loan.CommissionRate).
		Scan(&loan.ID, &loan.CreatedAt)
	require.NoError(t, err)
	return loan
}

// CreateTestDayRecord builds an unsaved day record with default totals
func CreateTestDayRecord(leadID int64, day time.Time) *models.DayRecord {
	return &models.DayRecord{
		LeadID:         leadID,
		Day:            day,
		ExpectedAmount: decimal.NewFromInt(1500),
		PaidAmount:     decimal.NewFromInt(1000),
		CashAmount:     decimal.NewFromInt(700),
		BankAmount:     decimal.NewFromInt(300),
	}
}

// CreateTestCashAccount creates a cash account row for a lead
func CreateTestCashAccount(t *testing.T, db *database.DB, leadID int64, balance int64) *models.CashAccount {
	t.Helper()
	account := &models.CashAccount{
		LeadID:  leadID,
		Balance: decimal.NewFromInt(balance),
	}
	err := db.QueryRow(context.Background(), `
		INSERT INTO cash_accounts (lead_id, balance)
		VALUES ($1, $2)
		RETURNING id, updated_at
	`, account.LeadID, account.Balance).Scan(&account.ID, &account.UpdatedAt)
	require.NoError(t, err)
	return account
}

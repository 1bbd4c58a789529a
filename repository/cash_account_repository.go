package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"collector/database"
	"collector/models"
)

// CashAccountRepository implements the CashAccountRepository interface
type CashAccountRepository struct {
	q queryable
}

// NewCashAccountRepository creates a new cash account repository
func NewCashAccountRepository(db *database.DB) *CashAccountRepository {
	return &CashAccountRepository{q: db.Pool}
}

// newCashAccountRepositoryWithTx creates a new cash account repository with a transaction
func newCashAccountRepositoryWithTx(tx queryable) *CashAccountRepository {
	return &CashAccountRepository{q: tx}
}

// GetByLead returns the cash account for a lead's route, or nil
func (r *CashAccountRepository) GetByLead(ctx context.Context, leadID int64) (*models.CashAccount, error) {
	query := `
		SELECT id, lead_id, balance, updated_at
		FROM cash_accounts
		WHERE lead_id = $1
	`

	var account models.CashAccount
	err := r.q.QueryRow(ctx, query, leadID).Scan(
		&account.ID,
		&account.LeadID,
		&account.Balance,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cash account for lead %d: %w", leadID, err)
	}

	return &account, nil
}

// Debit deducts from an account's balance, failing if insufficient
func (r *CashAccountRepository) Debit(ctx context.Context, id int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE cash_accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to debit cash account %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cash account %d not found or insufficient balance", id)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
)

// FineRepository implements the FineRepository interface
type FineRepository struct {
	q queryable
}

// NewFineRepository creates a new fine repository
func NewFineRepository(db *database.DB) *FineRepository {
	return &FineRepository{q: db.Pool}
}

// newFineRepositoryWithTx creates a new fine repository with a transaction
func newFineRepositoryWithTx(tx queryable) *FineRepository {
	return &FineRepository{q: tx}
}

// Create inserts a fine and fills its ID and timestamp
func (r *FineRepository) Create(ctx context.Context, fine *models.Fine) error {
	query := `
		INSERT INTO fines (account_id, lead_id, day, amount, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		fine.AccountID,
		fine.LeadID,
		fine.Day,
		fine.Amount,
		fine.Reason,
	).Scan(&fine.ID, &fine.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create fine for account %d: %w", fine.AccountID, err)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"collector/database"
	"collector/models"
)

// DayRecordRepository implements the DayRecordRepository interface
type DayRecordRepository struct {
	q queryable
}

// NewDayRecordRepository creates a new day record repository
func NewDayRecordRepository(db *database.DB) *DayRecordRepository {
	return &DayRecordRepository{q: db.Pool}
}

// newDayRecordRepositoryWithTx creates a new day record repository with a transaction
func newDayRecordRepositoryWithTx(tx queryable) *DayRecordRepository {
	return &DayRecordRepository{q: tx}
}

// GetByLeadAndDay returns the aggregate record for a lead and day, or nil
func (r *DayRecordRepository) GetByLeadAndDay(ctx context.Context, leadID int64, day time.Time) (*models.DayRecord, error) {
	query := `
		SELECT id, lead_id, day, expected_amount, paid_amount, cash_amount, bank_amount, created_at, updated_at
		FROM collection_days
		WHERE lead_id = $1 AND day = $2
	`

	var record models.DayRecord
	err := r.q.QueryRow(ctx, query, leadID, day).Scan(
		&record.ID,
		&record.LeadID,
		&record.Day,
		&record.ExpectedAmount,
		&record.PaidAmount,
		&record.CashAmount,
		&record.BankAmount,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day record for lead %d on %s: %w",
			leadID, day.Format("2006-01-02"), err)
	}

	return &record, nil
}

// Create inserts a new aggregate record and fills its ID and timestamps
func (r *DayRecordRepository) Create(ctx context.Context, record *models.DayRecord) error {
	query := `
		INSERT INTO collection_days (lead_id, day, expected_amount, paid_amount, cash_amount, bank_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		record.LeadID,
		record.Day,
		record.ExpectedAmount,
		record.PaidAmount,
		record.CashAmount,
		record.BankAmount,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create day record for lead %d: %w", record.LeadID, err)
	}

	return nil
}

// UpdateTotals rewrites the paid/cash/bank totals of an existing record
func (r *DayRecordRepository) UpdateTotals(ctx context.Context, id int64, paid, cash, bank decimal.Decimal) error {
	query := `
		UPDATE collection_days
		SET paid_amount = $1, cash_amount = $2, bank_amount = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query, paid, cash, bank, id)
	if err != nil {
		return fmt.Errorf("failed to update totals for day record %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("day record %d not found", id)
	}

	return nil
}

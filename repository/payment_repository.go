package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
)

// PaymentRepository implements the PaymentRepository interface
type PaymentRepository struct {
	q queryable
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

// newPaymentRepositoryWithTx creates a new payment repository with a transaction
func newPaymentRepositoryWithTx(tx queryable) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// CreateBatch inserts the given rows under one day record
func (r *PaymentRepository) CreateBatch(ctx context.Context, dayRecordID int64, rows []*models.NewPayment) error {
	query := `
		INSERT INTO payments (day_record_id, loan_id, amount, commission, method)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, row := range rows {
		_, err := r.q.Exec(ctx, query, dayRecordID, row.LoanID, row.Amount, row.Commission, row.Method)
		if err != nil {
			return fmt.Errorf("failed to create payment for loan %d: %w", row.LoanID, err)
		}
	}

	return nil
}

// Replace applies a full replacement list to a day record: rows marked
// deleted are removed, the rest are rewritten with their current values.
func (r *PaymentRepository) Replace(ctx context.Context, dayRecordID int64, rows []*models.PaymentRevision) error {
	deleteQuery := `
		DELETE FROM payments
		WHERE id = $1 AND day_record_id = $2
	`
	updateQuery := `
		UPDATE payments
		SET amount = $1, commission = $2, method = $3
		WHERE id = $4 AND day_record_id = $5
	`

	for _, row := range rows {
		if row.Deleted {
			_, err := r.q.Exec(ctx, deleteQuery, row.PaymentID, dayRecordID)
			if err != nil {
				return fmt.Errorf("failed to delete payment %d: %w", row.PaymentID, err)
			}
			continue
		}

		result, err := r.q.Exec(ctx, updateQuery, row.Amount, row.Commission, row.Method, row.PaymentID, dayRecordID)
		if err != nil {
			return fmt.Errorf("failed to update payment %d: %w", row.PaymentID, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("payment %d not found on day record %d", row.PaymentID, dayRecordID)
		}
	}

	return nil
}

// GetByDayRecord returns all payment rows of a day record
func (r *PaymentRepository) GetByDayRecord(ctx context.Context, dayRecordID int64) ([]*models.CommittedPayment, error) {
	query := `
		SELECT id, day_record_id, loan_id, amount, commission, method, created_at
		FROM payments
		WHERE day_record_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, dayRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments for day record %d: %w", dayRecordID, err)
	}
	defer rows.Close()

	var payments []*models.CommittedPayment
	for rows.Next() {
		var payment models.CommittedPayment
		err := rows.Scan(
			&payment.ID,
			&payment.DayRecordID,
			&payment.LoanID,
			&payment.Amount,
			&payment.Commission,
			&payment.Method,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

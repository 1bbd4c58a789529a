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

// LoanRepository implements the LoanRepository interface
type LoanRepository struct {
	q queryable
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *database.DB) *LoanRepository {
	return &LoanRepository{q: db.Pool}
}

// newLoanRepositoryWithTx creates a new loan repository with a transaction
func newLoanRepositoryWithTx(tx queryable) *LoanRepository {
	return &LoanRepository{q: tx}
}

// GetRosterForDay returns a lead's active loans, each carrying the payment
// already committed for the given day when one exists.
func (r *LoanRepository) GetRosterForDay(ctx context.Context, leadID int64, day time.Time) ([]*models.Loan, error) {
	query := `
		SELECT
			l.id,
			l.lead_id,
			l.borrower,
			l.expected_weekly_payment,
			l.commission_rate,
			l.active,
			l.created_at,
			p.id,
			p.day_record_id,
			p.amount,
			p.commission,
			p.method,
			p.created_at
		FROM loans l
		LEFT JOIN collection_days cd
			ON cd.lead_id = l.lead_id AND cd.day = $2
		LEFT JOIN payments p
			ON p.day_record_id = cd.id AND p.loan_id = l.id
		WHERE l.lead_id = $1 AND l.active
		ORDER BY l.id
	`

	rows, err := r.q.Query(ctx, query, leadID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for lead %d: %w", leadID, err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		var loan models.Loan
		var paymentID, dayRecordID *int64
		var amount, commission *decimal.Decimal
		var method *models.PaymentMethod
		var paymentCreatedAt *time.Time

		err := rows.Scan(
			&loan.ID,
			&loan.LeadID,
			&loan.Borrower,
			&loan.ExpectedWeeklyPayment,
			&loan.CommissionRate,
			&loan.Active,
			&loan.CreatedAt,
			&paymentID,
			&dayRecordID,
			&amount,
			&commission,
			&method,
			&paymentCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}

		if paymentID != nil {
			loan.Committed = &models.CommittedPayment{
				ID:          *paymentID,
				DayRecordID: *dayRecordID,
				LoanID:      loan.ID,
				Amount:      *amount,
				Commission:  *commission,
				Method:      *method,
				CreatedAt:   *paymentCreatedAt,
			}
		}
		loans = append(loans, &loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}

// GetByID retrieves a loan by its ID
func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	query := `
		SELECT id, lead_id, borrower, expected_weekly_payment, commission_rate, active, created_at
		FROM loans
		WHERE id = $1
	`

	var loan models.Loan
	err := r.q.QueryRow(ctx, query, id).Scan(
		&loan.ID,
		&loan.LeadID,
		&loan.Borrower,
		&loan.ExpectedWeeklyPayment,
		&loan.CommissionRate,
		&loan.Active,
		&loan.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan %d: %w", id, err)
	}

	return &loan, nil
}

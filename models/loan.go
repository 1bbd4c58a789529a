package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents an active loan on a lead's collection route.
// ExpectedWeeklyPayment and CommissionRate come from the loan product and are
// read-only inside a collection session.
type Loan struct {
	ID                    int64           `db:"id"`
	LeadID                int64           `db:"lead_id"`
	Borrower              string          `db:"borrower"`
	ExpectedWeeklyPayment decimal.Decimal `db:"expected_weekly_payment"`
	CommissionRate        decimal.Decimal `db:"commission_rate"`
	Active                bool            `db:"active"`
	CreatedAt             time.Time       `db:"created_at"`

	// Committed is the payment already saved for the session day, if any.
	// Populated by the roster query, never stored on the loans table.
	Committed *CommittedPayment `db:"-"`
}

// HasCommitted reports whether a payment was already saved for the session day.
func (l *Loan) HasCommitted() bool {
	return l.Committed != nil
}

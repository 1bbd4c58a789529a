package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayRecord is the aggregate record summarizing one lead's collections for
// one calendar day, linked to its individual payment rows.
type DayRecord struct {
	ID             int64           `db:"id"`
	LeadID         int64           `db:"lead_id"`
	Day            time.Time       `db:"day"`
	ExpectedAmount decimal.Decimal `db:"expected_amount"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	CashAmount     decimal.Decimal `db:"cash_amount"`
	BankAmount     decimal.Decimal `db:"bank_amount"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// CommitResult is the outcome of a successful batch commit.
type CommitResult struct {
	DayRecordID  int64
	Created      bool // true for create mode, false for update mode
	PaymentCount int
	Cash         decimal.Decimal
	Bank         decimal.Decimal
	Total        decimal.Decimal
}

// DaySummary is the read model for a committed day: the aggregate record
// plus its payment rows.
type DaySummary struct {
	Record   *DayRecord
	Payments []*CommittedPayment
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how collected money was received.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// IsValid reports whether the method is one of the known values.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// CommittedPayment is a payment row already persisted for a day, as loaded
// with the roster. Read-only snapshot inside a session.
type CommittedPayment struct {
	ID          int64           `db:"id"`
	DayRecordID int64           `db:"day_record_id"`
	LoanID      int64           `db:"loan_id"`
	Amount      decimal.Decimal `db:"amount"`
	Commission  decimal.Decimal `db:"commission"`
	Method      PaymentMethod   `db:"method"`
	CreatedAt   time.Time       `db:"created_at"`
}

// PaymentEntry is the in-session state for a loan that has no committed
// payment yet. InitialCommission is fixed at creation and only consulted to
// decide eligibility for a bulk commission override.
type PaymentEntry struct {
	LoanID            int64
	Amount            decimal.Decimal
	Commission        decimal.Decimal
	InitialCommission decimal.Decimal
	Method            PaymentMethod
	NoPayment         bool
}

// EditedPayment is a pending modification (or deletion) of a committed
// payment. Its presence for a loan means "there is an unsaved change";
// absence means the committed snapshot is displayed unchanged.
type EditedPayment struct {
	PaymentID  int64
	LoanID     int64
	Amount     decimal.Decimal
	Commission decimal.Decimal
	Method     PaymentMethod
	Deleted    bool
}

// AdHocEntry is a manually added payment for a roster loan outside the
// default per-loan entry flow. TempID is session-local and never persisted.
type AdHocEntry struct {
	TempID     string
	LoanID     *int64
	Amount     decimal.Decimal
	Commission decimal.Decimal
	Method     PaymentMethod
}

// HasLoan reports whether a loan has been chosen for the entry.
func (e *AdHocEntry) HasLoan() bool {
	return e.LoanID != nil
}

// Committable reports whether the entry qualifies for the commit batch:
// a chosen loan and a positive amount.
func (e *AdHocEntry) Committable() bool {
	return e.LoanID != nil && e.Amount.IsPositive()
}

// NewPayment is one row of a create-mode commit batch.
type NewPayment struct {
	LoanID     int64
	Amount     decimal.Decimal
	Commission decimal.Decimal
	Method     PaymentMethod
}

// PaymentRevision is one row of an update-mode commit batch. The update call
// is a full replacement: every committed payment of the day appears exactly
// once, Deleted meaning "remove this row".
type PaymentRevision struct {
	PaymentID  int64
	LoanID     int64
	Amount     decimal.Decimal
	Commission decimal.Decimal
	Method     PaymentMethod
	Deleted    bool
}

// EntryStatus is the derived per-loan display state.
type EntryStatus string

const (
	EntryStatusPending    EntryStatus = "pending"
	EntryStatusNoPayment  EntryStatus = "no_payment"
	EntryStatusRegistered EntryStatus = "registered"
	EntryStatusEdited     EntryStatus = "edited"
	EntryStatusDeleted    EntryStatus = "deleted"
)

// BulkCommissionResult reports the outcome of a global commission override.
type BulkCommissionResult struct {
	AppliedCount int
	SkippedCount int
}

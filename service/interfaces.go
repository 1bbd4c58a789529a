package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"collector/events"
	"collector/models"
)

// LoanRepository defines the interface for roster data access
type LoanRepository interface {
	// GetRosterForDay returns a lead's active loans with any payment
	// already committed for the given day embedded on each loan
	GetRosterForDay(ctx context.Context, leadID int64, day time.Time) ([]*models.Loan, error)

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id int64) (*models.Loan, error)
}

// DayRecordRepository defines the interface for day aggregate data access
type DayRecordRepository interface {
	// GetByLeadAndDay returns the aggregate record for a lead and day, or nil
	GetByLeadAndDay(ctx context.Context, leadID int64, day time.Time) (*models.DayRecord, error)

	// Create inserts a new aggregate record and fills its ID and timestamps
	Create(ctx context.Context, record *models.DayRecord) error

	// UpdateTotals rewrites the paid/cash/bank totals of an existing record
	UpdateTotals(ctx context.Context, id int64, paid, cash, bank decimal.Decimal) error
}

// PaymentRepository defines the interface for payment row data access
type PaymentRepository interface {
	// CreateBatch inserts the given rows under one day record
	CreateBatch(ctx context.Context, dayRecordID int64, rows []*models.NewPayment) error

	// Replace applies a full replacement list to a day record: rows marked
	// deleted are removed, the rest are rewritten
	Replace(ctx context.Context, dayRecordID int64, rows []*models.PaymentRevision) error

	// GetByDayRecord returns all payment rows of a day record
	GetByDayRecord(ctx context.Context, dayRecordID int64) ([]*models.CommittedPayment, error)
}

// CashAccountRepository defines the interface for route cash account access
type CashAccountRepository interface {
	// GetByLead returns the cash account for a lead's route, or nil
	GetByLead(ctx context.Context, leadID int64) (*models.CashAccount, error)

	// Debit deducts from an account's balance, failing if insufficient
	Debit(ctx context.Context, id int64, amount decimal.Decimal) error
}

// FineRepository defines the interface for fine records
type FineRepository interface {
	// Create inserts a fine and fills its ID and timestamp
	Create(ctx context.Context, fine *models.Fine) error
}

// CollectionService drives one lead's daily collection session: roster
// loading, entry/edit/ad-hoc mutation, totals, the cash/bank reallocation
// and the single atomic commit.
type CollectionService interface {
	// OpenSession loads the roster for a (lead, day) pair and returns the
	// session snapshot. Opening the already open pair keeps in-progress work.
	OpenSession(ctx context.Context, leadID int64, day time.Time) (*SessionSnapshot, error)

	// RefreshRoster refetches the roster for the current session. A response
	// for a no longer current session is discarded silently.
	RefreshRoster(ctx context.Context) error

	// Snapshot returns the current session state
	Snapshot() (*SessionSnapshot, error)

	// Payment entry store operations
	SetAmount(loanID int64, amount decimal.Decimal) error
	SetCommission(loanID int64, commission decimal.Decimal) error
	SetMethod(loanID int64, method models.PaymentMethod) error
	ToggleNoPayment(loanID int64, shift bool, visible []int64) error
	SetAllToWeekly(visible []int64) error
	ClearEntries() error
	ApplyGlobalCommission(value decimal.Decimal) (*models.BulkCommissionResult, error)
	SetGlobalCommissionInput(value decimal.Decimal) error

	// Edit store operations
	StartEdit(loanID int64) error
	SetEditAmount(loanID int64, amount decimal.Decimal) error
	SetEditCommission(loanID int64, commission decimal.Decimal) error
	SetEditMethod(loanID int64, method models.PaymentMethod) error
	ToggleDelete(loanID int64) error
	CancelEdit(loanID int64) error

	// Ad-hoc entry operations
	AddAdHoc() (*models.AdHocEntry, error)
	SetAdHocLoan(tempID string, loanID int64) error
	SetAdHocAmount(tempID string, amount decimal.Decimal) error
	SetAdHocCommission(tempID string, commission decimal.Decimal) error
	SetAdHocMethod(tempID string, method models.PaymentMethod) error
	RemoveAdHoc(tempID string) error
	AvailableLoans(tempID string) ([]*models.Loan, error)

	// SetBankTransfer records the cash-to-bank reallocation for the commit
	SetBankTransfer(amount decimal.Decimal) error

	// Commit persists the session as one atomic create or update batch
	Commit(ctx context.Context) (*models.CommitResult, error)

	// GetDaySummary returns a committed day record with its payment rows
	GetDaySummary(ctx context.Context, leadID int64, day time.Time) (*models.DaySummary, error)

	// RecordFine debits a fine from the current session lead's cash account
	RecordFine(ctx context.Context, amount decimal.Decimal, reason string) (*models.Fine, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	LoanRepository() LoanRepository
	DayRecordRepository() DayRecordRepository
	PaymentRepository() PaymentRepository
	CashAccountRepository() CashAccountRepository
	FineRepository() FineRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}

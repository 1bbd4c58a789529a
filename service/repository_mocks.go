package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"collector/events"
	"collector/models"
)

// MockLoanRepository is a mock implementation of LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) GetRosterForDay(ctx context.Context, leadID int64, day time.Time) ([]*models.Loan, error) {
	args := m.Called(ctx, leadID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

// MockDayRecordRepository is a mock implementation of DayRecordRepository
type MockDayRecordRepository struct {
	mock.Mock
}

func (m *MockDayRecordRepository) GetByLeadAndDay(ctx context.Context, leadID int64, day time.Time) (*models.DayRecord, error) {
	args := m.Called(ctx, leadID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DayRecord), args.Error(1)
}

func (m *MockDayRecordRepository) Create(ctx context.Context, record *models.DayRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDayRecordRepository) UpdateTotals(ctx context.Context, id int64, paid, cash, bank decimal.Decimal) error {
	args := m.Called(ctx, id, paid, cash, bank)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateBatch(ctx context.Context, dayRecordID int64, rows []*models.NewPayment) error {
	args := m.Called(ctx, dayRecordID, rows)
	return args.Error(0)
}

func (m *MockPaymentRepository) Replace(ctx context.Context, dayRecordID int64, rows []*models.PaymentRevision) error {
	args := m.Called(ctx, dayRecordID, rows)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByDayRecord(ctx context.Context, dayRecordID int64) ([]*models.CommittedPayment, error) {
	args := m.Called(ctx, dayRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommittedPayment), args.Error(1)
}

// MockCashAccountRepository is a mock implementation of CashAccountRepository
type MockCashAccountRepository struct {
	mock.Mock
}

func (m *MockCashAccountRepository) GetByLead(ctx context.Context, leadID int64) (*models.CashAccount, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CashAccount), args.Error(1)
}

func (m *MockCashAccountRepository) Debit(ctx context.Context, id int64, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockFineRepository is a mock implementation of FineRepository
type MockFineRepository struct {
	mock.Mock
}

func (m *MockFineRepository) Create(ctx context.Context, fine *models.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// nopEventPublisher swallows events for tests that do not assert on them
type nopEventPublisher struct{}

func (nopEventPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	loanRepo      LoanRepository
	dayRecordRepo DayRecordRepository
	paymentRepo   PaymentRepository
	cashRepo      CashAccountRepository
	fineRepo      FineRepository
	eventBus      EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(loans LoanRepository, dayRecords DayRecordRepository, payments PaymentRepository, cash CashAccountRepository, fines FineRepository) {
	m.loanRepo = loans
	m.dayRecordRepo = dayRecords
	m.paymentRepo = payments
	m.cashRepo = cash
	m.fineRepo = fines
	m.eventBus = nopEventPublisher{}
}

// SetEventBus overrides the event publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LoanRepository() LoanRepository {
	return m.loanRepo
}

func (m *MockUnitOfWork) DayRecordRepository() DayRecordRepository {
	return m.dayRecordRepo
}

func (m *MockUnitOfWork) PaymentRepository() PaymentRepository {
	return m.paymentRepo
}

func (m *MockUnitOfWork) CashAccountRepository() CashAccountRepository {
	return m.cashRepo
}

func (m *MockUnitOfWork) FineRepository() FineRepository {
	return m.fineRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

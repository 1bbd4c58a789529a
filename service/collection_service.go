package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"collector/config"
	"collector/events"
	"collector/models"
)

// SessionRow is one roster loan with its in-session state.
type SessionRow struct {
	Loan   *models.Loan
	Entry  *models.PaymentEntry
	Edit   *models.EditedPayment
	Status models.EntryStatus
}

// Distribution is the current cash/bank reallocation state.
type Distribution struct {
	BankTransfer decimal.Decimal
	ExceedsCash  bool
	CashRecorded decimal.Decimal
	BankRecorded decimal.Decimal
}

// SessionSnapshot is the read view of the current session.
type SessionSnapshot struct {
	LeadID       int64
	Day          time.Time
	Rows         []SessionRow
	AdHoc        []*models.AdHocEntry
	Totals       models.TotalsSet
	Distribution Distribution
}

type collectionService struct {
	uowFactory UnitOfWorkFactory
	cfg        *config.Config

	mu      sync.Mutex
	session *CollectionSession
}

// NewCollectionService creates a new collection service
func NewCollectionService(uowFactory UnitOfWorkFactory, cfg *config.Config) CollectionService {
	return &collectionService{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

func (s *collectionService) OpenSession(ctx context.Context, leadID int64, day time.Time) (*SessionSnapshot, error) {
	day = NormalizeDay(day)

	s.mu.Lock()
	if s.session == nil || s.session.LeadID != leadID || !s.session.Day.Equal(day) {
		// Navigation away discards the previous session wholesale.
		s.session = NewCollectionSession(leadID, day)
	}
	s.mu.Unlock()

	if err := s.loadRoster(ctx, leadID, day); err != nil {
		var stale *StaleSessionError
		if errors.As(err, &stale) {
			// The session moved on while the fetch was in flight; the
			// response is dropped without surfacing anything.
			log.WithFields(log.Fields{
				"leadID": stale.GotLeadID,
				"day":    stale.GotDay.Format("2006-01-02"),
			}).Debug("Discarded stale roster response")
			return s.Snapshot()
		}
		return nil, err
	}

	return s.Snapshot()
}

func (s *collectionService) RefreshRoster(ctx context.Context) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return newValidationError("no active session")
	}
	leadID, day := s.session.LeadID, s.session.Day
	s.mu.Unlock()

	err := s.loadRoster(ctx, leadID, day)
	var stale *StaleSessionError
	if errors.As(err, &stale) {
		log.WithFields(log.Fields{
			"leadID": stale.GotLeadID,
			"day":    stale.GotDay.Format("2006-01-02"),
		}).Debug("Discarded stale roster response")
		return nil
	}
	return err
}

// loadRoster fetches the roster for a (lead, day) pair and applies it to the
// current session, unless the session changed while the fetch was running.
func (s *collectionService) loadRoster(ctx context.Context, leadID int64, day time.Time) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	loans, err := uow.LoanRepository().GetRosterForDay(ctx, leadID, day)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	uow.EventBus().Publish(events.SessionOpenedEvent{
		LeadID:    leadID,
		Day:       day,
		LoanCount: len(loans),
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return &StaleSessionError{GotLeadID: leadID, GotDay: day}
	}
	return s.session.ApplyRoster(leadID, day, loans)
}

// withSession runs fn against the current session under the service lock.
func (s *collectionService) withSession(fn func(sess *CollectionSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return newValidationError("no active session")
	}
	return fn(s.session)
}

func (s *collectionService) Snapshot() (*SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, newValidationError("no active session")
	}
	return snapshotOf(s.session), nil
}

func snapshotOf(sess *CollectionSession) *SessionSnapshot {
	rows := make([]SessionRow, 0, len(sess.Loans()))
	for _, loan := range sess.Loans() {
		rows = append(rows, SessionRow{
			Loan:   loan,
			Entry:  sess.Entry(loan.ID),
			Edit:   sess.Edit(loan.ID),
			Status: sess.EntryStatus(loan.ID),
		})
	}
	cashRecorded, bankRecorded := sess.RecordedSplit()
	return &SessionSnapshot{
		LeadID: sess.LeadID,
		Day:    sess.Day,
		Rows:   rows,
		AdHoc:  sess.AdHocEntries(),
		Totals: sess.TotalsSet(),
		Distribution: Distribution{
			BankTransfer: sess.BankTransfer(),
			ExceedsCash:  sess.ExceedsCash(),
			CashRecorded: cashRecorded,
			BankRecorded: bankRecorded,
		},
	}
}

// --- Payment entry store ---

func (s *collectionService) SetAmount(loanID int64, amount decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetAmount(loanID, amount)
	})
}

func (s *collectionService) SetCommission(loanID int64, commission decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetCommission(loanID, commission)
	})
}

func (s *collectionService) SetMethod(loanID int64, method models.PaymentMethod) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetMethod(loanID, method)
	})
}

func (s *collectionService) ToggleNoPayment(loanID int64, shift bool, visible []int64) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.ToggleNoPayment(loanID, shift, visible)
	})
}

func (s *collectionService) SetAllToWeekly(visible []int64) error {
	return s.withSession(func(sess *CollectionSession) error {
		if s.cfg.ResetAllOnWeekly {
			visible = make([]int64, 0, len(sess.Loans()))
			for _, loan := range sess.Loans() {
				visible = append(visible, loan.ID)
			}
		}
		sess.SetAllToWeekly(visible)
		return nil
	})
}

func (s *collectionService) ClearEntries() error {
	return s.withSession(func(sess *CollectionSession) error {
		sess.ClearAll()
		return nil
	})
}

func (s *collectionService) ApplyGlobalCommission(value decimal.Decimal) (*models.BulkCommissionResult, error) {
	var result *models.BulkCommissionResult
	err := s.withSession(func(sess *CollectionSession) error {
		var applyErr error
		result, applyErr = sess.ApplyGlobalCommission(value)
		return applyErr
	})
	return result, err
}

func (s *collectionService) SetGlobalCommissionInput(value decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		sess.SetGlobalCommissionInput(value)
		return nil
	})
}

// --- Edit store ---

func (s *collectionService) StartEdit(loanID int64) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.StartEdit(loanID)
	})
}

func (s *collectionService) SetEditAmount(loanID int64, amount decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetEditAmount(loanID, amount)
	})
}

func (s *collectionService) SetEditCommission(loanID int64, commission decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetEditCommission(loanID, commission)
	})
}

func (s *collectionService) SetEditMethod(loanID int64, method models.PaymentMethod) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetEditMethod(loanID, method)
	})
}

func (s *collectionService) ToggleDelete(loanID int64) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.ToggleDelete(loanID)
	})
}

func (s *collectionService) CancelEdit(loanID int64) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.CancelEdit(loanID)
	})
}

// --- Ad-hoc entries ---

func (s *collectionService) AddAdHoc() (*models.AdHocEntry, error) {
	var entry *models.AdHocEntry
	err := s.withSession(func(sess *CollectionSession) error {
		entry = sess.AddAdHoc()
		return nil
	})
	return entry, err
}

func (s *collectionService) SetAdHocLoan(tempID string, loanID int64) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetAdHocLoan(tempID, loanID)
	})
}

func (s *collectionService) SetAdHocAmount(tempID string, amount decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetAdHocAmount(tempID, amount)
	})
}

func (s *collectionService) SetAdHocCommission(tempID string, commission decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetAdHocCommission(tempID, commission)
	})
}

func (s *collectionService) SetAdHocMethod(tempID string, method models.PaymentMethod) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetAdHocMethod(tempID, method)
	})
}

func (s *collectionService) RemoveAdHoc(tempID string) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.RemoveAdHoc(tempID)
	})
}

func (s *collectionService) AvailableLoans(tempID string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := s.withSession(func(sess *CollectionSession) error {
		if _, findErr := sess.adHocFor(tempID); findErr != nil {
			return findErr
		}
		loans = sess.AvailableLoansFor(tempID)
		return nil
	})
	return loans, err
}

// --- Distribution and commit ---

func (s *collectionService) SetBankTransfer(amount decimal.Decimal) error {
	return s.withSession(func(sess *CollectionSession) error {
		return sess.SetBankTransfer(amount, s.cfg.ClampBankTransfer)
	})
}

func (s *collectionService) Commit(ctx context.Context) (*models.CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, newValidationError("no active session")
	}
	sess := s.session

	if sess.ExceedsCash() {
		return nil, &ValidationError{
			Reason:      "bank transfer amount exceeds available cash",
			ExceedsCash: true,
		}
	}

	var result *models.CommitResult
	var err error
	if sess.HasEdits() {
		result, err = s.commitUpdate(ctx, sess)
	} else {
		result, err = s.commitCreate(ctx, sess)
	}
	if err != nil {
		// Session state stays intact for a manual retry.
		return nil, err
	}

	sess.ClearAfterCommit()

	log.WithFields(log.Fields{
		"leadID":      sess.LeadID,
		"day":         sess.Day.Format("2006-01-02"),
		"dayRecordID": result.DayRecordID,
		"created":     result.Created,
		"payments":    result.PaymentCount,
	}).Info("Collection day committed")

	return result, nil
}

// commitCreate persists the new-payment population: the aggregate record is
// created when the day has none yet, otherwise the new rows and totals are
// appended to the existing one.
func (s *collectionService) commitCreate(ctx context.Context, sess *CollectionSession) (*models.CommitResult, error) {
	rows := sess.NewPayments()
	if len(rows) == 0 {
		return nil, newValidationError("no valid entries to save")
	}

	totals := sess.NewTotals()
	cashRecorded, bankRecorded := sess.RecordedSplit()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, &CommitError{Op: "create", Err: err}
	}
	defer uow.Rollback() // No-op if already committed

	record, err := uow.DayRecordRepository().GetByLeadAndDay(ctx, sess.LeadID, sess.Day)
	if err != nil {
		return nil, &CommitError{Op: "create", Err: err}
	}

	created := record == nil
	if created {
		record = &models.DayRecord{
			LeadID:         sess.LeadID,
			Day:            sess.Day,
			ExpectedAmount: sess.ExpectedTotal(),
			PaidAmount:     totals.Total,
			CashAmount:     cashRecorded,
			BankAmount:     bankRecorded,
		}
		if err := uow.DayRecordRepository().Create(ctx, record); err != nil {
			return nil, &CommitError{Op: "create", Err: err}
		}
	} else {
		err := uow.DayRecordRepository().UpdateTotals(ctx, record.ID,
			record.PaidAmount.Add(totals.Total),
			record.CashAmount.Add(cashRecorded),
			record.BankAmount.Add(bankRecorded))
		if err != nil {
			return nil, &CommitError{Op: "create", Err: err}
		}
	}

	if err := uow.PaymentRepository().CreateBatch(ctx, record.ID, rows); err != nil {
		return nil, &CommitError{Op: "create", Err: err}
	}

	uow.EventBus().Publish(events.DayCommittedEvent{
		LeadID:       sess.LeadID,
		Day:          sess.Day,
		DayRecordID:  record.ID,
		Created:      created,
		PaymentCount: len(rows),
		Total:        totals.Total,
	})

	if err := uow.Commit(); err != nil {
		return nil, &CommitError{Op: "create", Err: err}
	}

	return &models.CommitResult{
		DayRecordID:  record.ID,
		Created:      created,
		PaymentCount: len(rows),
		Cash:         cashRecorded,
		Bank:         bankRecorded,
		Total:        totals.Total,
	}, nil
}

// commitUpdate persists the registered population as a full replacement of
// the day's payment rows with recomputed totals.
func (s *collectionService) commitUpdate(ctx context.Context, sess *CollectionSession) (*models.CommitResult, error) {
	rows := sess.PaymentRevisions()
	if len(rows) == 0 {
		return nil, newValidationError("no registered payments to update")
	}

	totals := sess.RegisteredTotals()
	cashRecorded, bankRecorded := sess.RecordedSplit()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, &CommitError{Op: "update", Err: err}
	}
	defer uow.Rollback() // No-op if already committed

	record, err := uow.DayRecordRepository().GetByLeadAndDay(ctx, sess.LeadID, sess.Day)
	if err != nil {
		return nil, &CommitError{Op: "update", Err: err}
	}
	if record == nil {
		return nil, &CommitError{Op: "update", Err: fmt.Errorf("no day record for lead %d on %s", sess.LeadID, sess.Day.Format("2006-01-02"))}
	}

	if err := uow.DayRecordRepository().UpdateTotals(ctx, record.ID, totals.Total, cashRecorded, bankRecorded); err != nil {
		return nil, &CommitError{Op: "update", Err: err}
	}

	if err := uow.PaymentRepository().Replace(ctx, record.ID, rows); err != nil {
		return nil, &CommitError{Op: "update", Err: err}
	}

	kept := 0
	for _, row := range rows {
		if !row.Deleted {
			kept++
		}
	}

	uow.EventBus().Publish(events.DayCommittedEvent{
		LeadID:       sess.LeadID,
		Day:          sess.Day,
		DayRecordID:  record.ID,
		PaymentCount: kept,
		Total:        totals.Total,
	})

	if err := uow.Commit(); err != nil {
		return nil, &CommitError{Op: "update", Err: err}
	}

	return &models.CommitResult{
		DayRecordID:  record.ID,
		PaymentCount: kept,
		Cash:         cashRecorded,
		Bank:         bankRecorded,
		Total:        totals.Total,
	}, nil
}

func (s *collectionService) GetDaySummary(ctx context.Context, leadID int64, day time.Time) (*models.DaySummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	record, err := uow.DayRecordRepository().GetByLeadAndDay(ctx, leadID, NormalizeDay(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get day record: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	payments, err := uow.PaymentRepository().GetByDayRecord(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DaySummary{Record: record, Payments: payments}, nil
}

func (s *collectionService) RecordFine(ctx context.Context, amount decimal.Decimal, reason string) (*models.Fine, error) {
	if !amount.IsPositive() {
		return nil, newValidationError("fine amount must be positive")
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil, newValidationError("no active session")
	}
	leadID, day := s.session.LeadID, s.session.Day
	s.mu.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.CashAccountRepository().GetByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cash account: %w", err)
	}
	if account == nil {
		return nil, newValidationError("no cash account for lead %d", leadID)
	}

	if err := uow.CashAccountRepository().Debit(ctx, account.ID, amount); err != nil {
		return nil, fmt.Errorf("failed to debit cash account: %w", err)
	}

	fine := &models.Fine{
		AccountID: account.ID,
		LeadID:    leadID,
		Day:       day,
		Amount:    amount,
		Reason:    reason,
	}
	if err := uow.FineRepository().Create(ctx, fine); err != nil {
		return nil, fmt.Errorf("failed to create fine: %w", err)
	}

	uow.EventBus().Publish(events.FineRecordedEvent{
		LeadID:    leadID,
		AccountID: account.ID,
		Amount:    amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return fine, nil
}

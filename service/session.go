package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"collector/models"
)

// CollectionSession holds all in-progress state for one lead on one calendar
// day: the per-loan payment entries, pending edits of committed payments,
// manually added entries, and the cash/bank reallocation. One instance exists
// per (lead, day) and is discarded wholesale on navigation. Not safe for
// concurrent use; the collection service serializes access.
type CollectionSession struct {
	LeadID int64
	Day    time.Time

	loans     []*models.Loan
	loanIndex map[int64]*models.Loan

	entries map[int64]*models.PaymentEntry
	edits   map[int64]*models.EditedPayment
	adHoc   []*models.AdHocEntry

	// lastMarkedIndex is the visible-list index of the most recent
	// no-payment toggle, -1 when unset. Anchors shift range marking.
	lastMarkedIndex int

	// globalCommission echoes the last typed bulk commission value; new
	// ad-hoc entries default to it.
	globalCommission decimal.Decimal

	bankTransfer decimal.Decimal
}

// NewCollectionSession creates an empty session for a lead and day.
func NewCollectionSession(leadID int64, day time.Time) *CollectionSession {
	return &CollectionSession{
		LeadID:          leadID,
		Day:             NormalizeDay(day),
		loanIndex:       make(map[int64]*models.Loan),
		entries:         make(map[int64]*models.PaymentEntry),
		edits:           make(map[int64]*models.EditedPayment),
		lastMarkedIndex: -1,
	}
}

// NormalizeDay truncates a timestamp to its calendar day in UTC.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ApplyRoster installs a roster fetch response. A response for a different
// (lead, day) than the session's returns a StaleSessionError; entries are
// only initialized when the store is empty, so a background refetch never
// clobbers in-progress work.
func (s *CollectionSession) ApplyRoster(leadID int64, day time.Time, loans []*models.Loan) error {
	day = NormalizeDay(day)
	if leadID != s.LeadID || !day.Equal(s.Day) {
		return &StaleSessionError{
			WantLeadID: s.LeadID,
			WantDay:    s.Day,
			GotLeadID:  leadID,
			GotDay:     day,
		}
	}

	s.loans = loans
	s.loanIndex = make(map[int64]*models.Loan, len(loans))
	for _, loan := range loans {
		s.loanIndex[loan.ID] = loan
	}

	if len(s.entries) == 0 {
		s.initializeEntries()
	}
	return nil
}

// initializeEntries populates one entry per loan with the weekly default.
func (s *CollectionSession) initializeEntries() {
	for _, loan := range s.loans {
		s.entries[loan.ID] = &models.PaymentEntry{
			LoanID:            loan.ID,
			Amount:            loan.ExpectedWeeklyPayment,
			Commission:        loan.CommissionRate,
			InitialCommission: loan.CommissionRate,
			Method:            models.PaymentMethodCash,
		}
	}
}

// Loans returns the roster in its fetched order.
func (s *CollectionSession) Loans() []*models.Loan {
	return s.loans
}

// Loan returns a roster loan by ID, or nil.
func (s *CollectionSession) Loan(loanID int64) *models.Loan {
	return s.loanIndex[loanID]
}

// Entry returns the payment entry for a loan, or nil.
func (s *CollectionSession) Entry(loanID int64) *models.PaymentEntry {
	return s.entries[loanID]
}

func (s *CollectionSession) entryFor(loanID int64) (*models.PaymentEntry, error) {
	entry, ok := s.entries[loanID]
	if !ok {
		return nil, fmt.Errorf("no payment entry for loan %d", loanID)
	}
	return entry, nil
}

// SetAmount updates an entry's amount, recomputes its commission from the
// loan's weekly installment and clears the no-payment marker.
func (s *CollectionSession) SetAmount(loanID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return newValidationError("amount cannot be negative")
	}
	entry, err := s.entryFor(loanID)
	if err != nil {
		return err
	}
	loan := s.loanIndex[loanID]
	entry.Amount = amount
	entry.Commission = Commission(amount, loan.ExpectedWeeklyPayment, loan.CommissionRate)
	entry.NoPayment = false
	return nil
}

// SetCommission overrides an entry's commission directly, without
// recomputing from the amount.
func (s *CollectionSession) SetCommission(loanID int64, commission decimal.Decimal) error {
	if commission.IsNegative() {
		return newValidationError("commission cannot be negative")
	}
	entry, err := s.entryFor(loanID)
	if err != nil {
		return err
	}
	entry.Commission = commission
	return nil
}

// SetMethod changes an entry's payment method.
func (s *CollectionSession) SetMethod(loanID int64, method models.PaymentMethod) error {
	if !method.IsValid() {
		return newValidationError("unknown payment method %q", method)
	}
	entry, err := s.entryFor(loanID)
	if err != nil {
		return err
	}
	entry.Method = method
	return nil
}

// ToggleNoPayment toggles the no-payment marker on one entry. With shift set
// and a previous toggle index present, it instead marks every entry in the
// inclusive range between that index and the current one within the given
// visible list. The current index becomes the new range anchor.
func (s *CollectionSession) ToggleNoPayment(loanID int64, shift bool, visible []int64) error {
	entry, err := s.entryFor(loanID)
	if err != nil {
		return err
	}

	current := indexOf(visible, loanID)

	if shift && s.lastMarkedIndex >= 0 && current >= 0 {
		for _, id := range MarkRange(visible, s.lastMarkedIndex, current) {
			if ranged, ok := s.entries[id]; ok {
				markNoPayment(ranged)
			}
		}
	} else if entry.NoPayment {
		entry.NoPayment = false
	} else {
		markNoPayment(entry)
	}

	if current >= 0 {
		s.lastMarkedIndex = current
	}
	return nil
}

func markNoPayment(entry *models.PaymentEntry) {
	entry.NoPayment = true
	entry.Amount = decimal.Zero
	entry.Commission = decimal.Zero
}

// MarkRange returns the loan IDs in the inclusive index range between last
// and current within the ordered visible list. Pure; decoupled from any
// selection state so it is independently testable.
func MarkRange(visible []int64, last, current int) []int64 {
	if last < 0 || current < 0 || last >= len(visible) || current >= len(visible) {
		return nil
	}
	lo, hi := last, current
	if lo > hi {
		lo, hi = hi, lo
	}
	return append([]int64(nil), visible[lo:hi+1]...)
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// SetAllToWeekly resets every entry in the given list back to the weekly
// default amount, the loan's own commission and cash.
func (s *CollectionSession) SetAllToWeekly(visible []int64) {
	for _, id := range visible {
		entry, ok := s.entries[id]
		if !ok {
			continue
		}
		loan := s.loanIndex[id]
		if loan == nil {
			continue
		}
		entry.Amount = loan.ExpectedWeeklyPayment
		entry.Commission = loan.CommissionRate
		entry.Method = models.PaymentMethodCash
		entry.NoPayment = false
	}
}

// ClearAll empties the entry store, the ad-hoc list and the range anchor.
func (s *CollectionSession) ClearAll() {
	s.entries = make(map[int64]*models.PaymentEntry)
	s.adHoc = nil
	s.lastMarkedIndex = -1
}

// ApplyGlobalCommission overrides the commission of every entry with a
// positive amount, no no-payment marker and a non-zero initial commission.
// Entries whose initial commission was zero are skipped unconditionally: a
// loan with no commission product never acquires one through a bulk apply.
func (s *CollectionSession) ApplyGlobalCommission(value decimal.Decimal) (*models.BulkCommissionResult, error) {
	if value.IsNegative() {
		return nil, newValidationError("commission cannot be negative")
	}
	s.globalCommission = value

	result := &models.BulkCommissionResult{}
	for _, entry := range s.entries {
		if !entry.Amount.IsPositive() {
			continue
		}
		if entry.InitialCommission.Sign() == 0 {
			result.SkippedCount++
			continue
		}
		if entry.NoPayment {
			continue
		}
		entry.Commission = value
		result.AppliedCount++
	}
	return result, nil
}

// SetGlobalCommissionInput records the typed bulk commission value without
// applying it; new ad-hoc entries default to it.
func (s *CollectionSession) SetGlobalCommissionInput(value decimal.Decimal) {
	s.globalCommission = value
}

// Reset discards all session state. Invoked when the lead or day changes.
func (s *CollectionSession) Reset() {
	s.entries = make(map[int64]*models.PaymentEntry)
	s.edits = make(map[int64]*models.EditedPayment)
	s.adHoc = nil
	s.lastMarkedIndex = -1
	s.globalCommission = decimal.Zero
	s.bankTransfer = decimal.Zero
}

// ClearAfterCommit discards entries, edits, ad-hoc entries and the
// reallocation after a successful batch commit.
func (s *CollectionSession) ClearAfterCommit() {
	s.entries = make(map[int64]*models.PaymentEntry)
	s.ClearEdits()
	s.adHoc = nil
	s.lastMarkedIndex = -1
	s.bankTransfer = decimal.Zero
}

// --- Edit store ---

// StartEdit creates a pending edit copying the loan's committed payment.
// Starting an already started edit is a no-op.
func (s *CollectionSession) StartEdit(loanID int64) error {
	loan := s.loanIndex[loanID]
	if loan == nil {
		return fmt.Errorf("loan %d not in roster", loanID)
	}
	if !loan.HasCommitted() {
		return newValidationError("loan %d has no committed payment to edit", loanID)
	}
	if _, ok := s.edits[loanID]; ok {
		return nil
	}
	committed := loan.Committed
	s.edits[loanID] = &models.EditedPayment{
		PaymentID:  committed.ID,
		LoanID:     loanID,
		Amount:     committed.Amount,
		Commission: committed.Commission,
		Method:     committed.Method,
	}
	return nil
}

// Edit returns the pending edit for a loan, or nil.
func (s *CollectionSession) Edit(loanID int64) *models.EditedPayment {
	return s.edits[loanID]
}

// HasEdits reports whether any pending edit exists.
func (s *CollectionSession) HasEdits() bool {
	return len(s.edits) > 0
}

func (s *CollectionSession) editFor(loanID int64) (*models.EditedPayment, error) {
	edit, ok := s.edits[loanID]
	if !ok {
		return nil, fmt.Errorf("no pending edit for loan %d", loanID)
	}
	return edit, nil
}

// SetEditAmount updates the amount of a pending edit.
func (s *CollectionSession) SetEditAmount(loanID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return newValidationError("amount cannot be negative")
	}
	edit, err := s.editFor(loanID)
	if err != nil {
		return err
	}
	edit.Amount = amount
	return nil
}

// SetEditCommission updates the commission of a pending edit.
func (s *CollectionSession) SetEditCommission(loanID int64, commission decimal.Decimal) error {
	if commission.IsNegative() {
		return newValidationError("commission cannot be negative")
	}
	edit, err := s.editFor(loanID)
	if err != nil {
		return err
	}
	edit.Commission = commission
	return nil
}

// SetEditMethod updates the payment method of a pending edit.
func (s *CollectionSession) SetEditMethod(loanID int64, method models.PaymentMethod) error {
	if !method.IsValid() {
		return newValidationError("unknown payment method %q", method)
	}
	edit, err := s.editFor(loanID)
	if err != nil {
		return err
	}
	edit.Method = method
	return nil
}

// ToggleDelete flips the deletion marker on an existing pending edit.
// Toggling twice restores the original value.
func (s *CollectionSession) ToggleDelete(loanID int64) error {
	edit, err := s.editFor(loanID)
	if err != nil {
		return err
	}
	edit.Deleted = !edit.Deleted
	return nil
}

// CancelEdit discards a pending edit, reverting the loan to its unedited
// committed display.
func (s *CollectionSession) CancelEdit(loanID int64) error {
	if _, err := s.editFor(loanID); err != nil {
		return err
	}
	delete(s.edits, loanID)
	return nil
}

// ClearEdits discards every pending edit.
func (s *CollectionSession) ClearEdits() {
	s.edits = make(map[int64]*models.EditedPayment)
}

// --- Ad-hoc entries ---

// AddAdHoc prepends a new ad-hoc entry with a fresh temp ID, no loan, the
// current global commission value and cash.
func (s *CollectionSession) AddAdHoc() *models.AdHocEntry {
	entry := &models.AdHocEntry{
		TempID:     uuid.NewString(),
		Commission: s.globalCommission,
		Method:     models.PaymentMethodCash,
	}
	s.adHoc = append([]*models.AdHocEntry{entry}, s.adHoc...)
	return entry
}

// AdHocEntries returns the ad-hoc list in display order.
func (s *CollectionSession) AdHocEntries() []*models.AdHocEntry {
	return s.adHoc
}

func (s *CollectionSession) adHocFor(tempID string) (*models.AdHocEntry, error) {
	for _, entry := range s.adHoc {
		if entry.TempID == tempID {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("no ad-hoc entry %s", tempID)
}

// SetAdHocLoan assigns a roster loan to an ad-hoc entry, filling its
// commission from the loan's own rate and defaulting the amount to the
// weekly installment when still unset. A loan held by another ad-hoc entry
// is rejected.
func (s *CollectionSession) SetAdHocLoan(tempID string, loanID int64) error {
	entry, err := s.adHocFor(tempID)
	if err != nil {
		return err
	}
	loan := s.loanIndex[loanID]
	if loan == nil {
		return fmt.Errorf("loan %d not in roster", loanID)
	}
	for _, other := range s.adHoc {
		if other.TempID != tempID && other.LoanID != nil && *other.LoanID == loanID {
			return newValidationError("loan %d is already selected by another entry", loanID)
		}
	}
	entry.LoanID = &loanID
	entry.Commission = loan.CommissionRate
	if entry.Amount.Sign() == 0 {
		entry.Amount = loan.ExpectedWeeklyPayment
	}
	return nil
}

// SetAdHocAmount updates an ad-hoc entry's amount.
func (s *CollectionSession) SetAdHocAmount(tempID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return newValidationError("amount cannot be negative")
	}
	entry, err := s.adHocFor(tempID)
	if err != nil {
		return err
	}
	entry.Amount = amount
	return nil
}

// SetAdHocCommission updates an ad-hoc entry's commission.
func (s *CollectionSession) SetAdHocCommission(tempID string, commission decimal.Decimal) error {
	if commission.IsNegative() {
		return newValidationError("commission cannot be negative")
	}
	entry, err := s.adHocFor(tempID)
	if err != nil {
		return err
	}
	entry.Commission = commission
	return nil
}

// SetAdHocMethod updates an ad-hoc entry's payment method.
func (s *CollectionSession) SetAdHocMethod(tempID string, method models.PaymentMethod) error {
	if !method.IsValid() {
		return newValidationError("unknown payment method %q", method)
	}
	entry, err := s.adHocFor(tempID)
	if err != nil {
		return err
	}
	entry.Method = method
	return nil
}

// RemoveAdHoc deletes an ad-hoc entry.
func (s *CollectionSession) RemoveAdHoc(tempID string) error {
	for i, entry := range s.adHoc {
		if entry.TempID == tempID {
			s.adHoc = append(s.adHoc[:i], s.adHoc[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no ad-hoc entry %s", tempID)
}

// AvailableLoansFor returns the roster loans an ad-hoc entry may still
// select: everything minus loans held by any other ad-hoc entry.
func (s *CollectionSession) AvailableLoansFor(tempID string) []*models.Loan {
	taken := make(map[int64]bool, len(s.adHoc))
	for _, entry := range s.adHoc {
		if entry.TempID != tempID && entry.LoanID != nil {
			taken[*entry.LoanID] = true
		}
	}
	available := make([]*models.Loan, 0, len(s.loans))
	for _, loan := range s.loans {
		if !taken[loan.ID] {
			available = append(available, loan)
		}
	}
	return available
}

// --- Derived state ---

// EntryStatus derives the display state for a roster loan.
func (s *CollectionSession) EntryStatus(loanID int64) models.EntryStatus {
	loan := s.loanIndex[loanID]
	if loan != nil && loan.HasCommitted() {
		if edit := s.edits[loanID]; edit != nil {
			if edit.Deleted {
				return models.EntryStatusDeleted
			}
			return models.EntryStatusEdited
		}
		return models.EntryStatusRegistered
	}
	if entry := s.entries[loanID]; entry != nil && entry.NoPayment {
		return models.EntryStatusNoPayment
	}
	return models.EntryStatusPending
}

// NewPayments builds the create-mode batch: entries with a positive amount
// for loans without a committed payment, merged with committable ad-hoc
// entries.
func (s *CollectionSession) NewPayments() []*models.NewPayment {
	var rows []*models.NewPayment
	for _, loan := range s.loans {
		if loan.HasCommitted() {
			continue
		}
		entry := s.entries[loan.ID]
		if entry == nil || !entry.Amount.IsPositive() {
			continue
		}
		rows = append(rows, &models.NewPayment{
			LoanID:     entry.LoanID,
			Amount:     entry.Amount,
			Commission: entry.Commission,
			Method:     entry.Method,
		})
	}
	for _, entry := range s.adHoc {
		if !entry.Committable() {
			continue
		}
		rows = append(rows, &models.NewPayment{
			LoanID:     *entry.LoanID,
			Amount:     entry.Amount,
			Commission: entry.Commission,
			Method:     entry.Method,
		})
	}
	return rows
}

// PaymentRevisions builds the update-mode batch: a complete replacement list
// covering every loan with a committed payment. Loans with a pending edit
// carry the edited values; the rest are resent unchanged.
func (s *CollectionSession) PaymentRevisions() []*models.PaymentRevision {
	var rows []*models.PaymentRevision
	for _, loan := range s.loans {
		if !loan.HasCommitted() {
			continue
		}
		committed := loan.Committed
		row := &models.PaymentRevision{
			PaymentID:  committed.ID,
			LoanID:     loan.ID,
			Amount:     committed.Amount,
			Commission: committed.Commission,
			Method:     committed.Method,
		}
		if edit := s.edits[loan.ID]; edit != nil {
			row.Amount = edit.Amount
			row.Commission = edit.Commission
			row.Method = edit.Method
			row.Deleted = edit.Deleted
		}
		rows = append(rows, row)
	}
	return rows
}

// ExpectedTotal sums the weekly installment over loans without a committed
// payment; it is the day's expected amount sent on create.
func (s *CollectionSession) ExpectedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, loan := range s.loans {
		if !loan.HasCommitted() {
			total = total.Add(loan.ExpectedWeeklyPayment)
		}
	}
	return total
}

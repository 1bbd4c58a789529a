package service

import (
	"github.com/shopspring/decimal"

	"collector/models"
)

// The four totals views are always recomputed from current session state,
// never cached: New and Registered summarize disjoint loan populations and
// Combined and Modal are derived from them, so a stored copy could only
// diverge.

// NewTotals summarizes entries for loans with no committed payment plus
// committable ad-hoc entries.
func (s *CollectionSession) NewTotals() models.Totals {
	var totals models.Totals
	for _, loan := range s.loans {
		if loan.HasCommitted() {
			continue
		}
		entry := s.entries[loan.ID]
		if entry == nil {
			continue
		}
		if entry.NoPayment {
			totals.NoPaymentCount++
			continue
		}
		if !entry.Amount.IsPositive() {
			continue
		}
		totals.Add(entry.Amount, entry.Method)
		totals.Commission = totals.Commission.Add(entry.Commission)
		totals.Count++
	}
	for _, entry := range s.adHoc {
		if !entry.Committable() {
			continue
		}
		totals.Add(entry.Amount, entry.Method)
		totals.Commission = totals.Commission.Add(entry.Commission)
		totals.Count++
	}
	return totals
}

// RegisteredTotals summarizes loans with a committed payment, taking pending
// edit values when present. Rows marked deleted are excluded from the sums
// and reported in DeletedCount.
func (s *CollectionSession) RegisteredTotals() models.Totals {
	var totals models.Totals
	for _, loan := range s.loans {
		if !loan.HasCommitted() {
			continue
		}
		amount := loan.Committed.Amount
		commission := loan.Committed.Commission
		method := loan.Committed.Method
		if edit := s.edits[loan.ID]; edit != nil {
			if edit.Deleted {
				totals.DeletedCount++
				continue
			}
			amount = edit.Amount
			commission = edit.Commission
			method = edit.Method
		}
		totals.Add(amount, method)
		totals.Commission = totals.Commission.Add(commission)
		totals.Count++
	}
	return totals
}

// CombinedTotals is the elementwise sum of the new and registered views.
func (s *CollectionSession) CombinedTotals() models.Totals {
	return s.NewTotals().Combine(s.RegisteredTotals())
}

// ModalTotals drives the single commit action: the registered view when any
// pending edit exists, the new view otherwise. A commit operates on exactly
// one of the two populations per invocation, never a mix.
func (s *CollectionSession) ModalTotals() models.Totals {
	if s.HasEdits() {
		return s.RegisteredTotals()
	}
	return s.NewTotals()
}

// TotalsSet bundles the four views for the caller.
func (s *CollectionSession) TotalsSet() models.TotalsSet {
	newTotals := s.NewTotals()
	registered := s.RegisteredTotals()
	combined := newTotals.Combine(registered)
	modal := newTotals
	if s.HasEdits() {
		modal = registered
	}
	return models.TotalsSet{
		New:        newTotals,
		Registered: registered,
		Combined:   combined,
		Modal:      modal,
	}
}

// --- Cash/bank reallocation ---

// SetBankTransfer records how much of the modal cash total is reclassified
// as a bank transfer. A negative value is rejected outright; a value above
// the available cash is either clamped down to it or kept and flagged by
// ExceedsCash, depending on policy.
func (s *CollectionSession) SetBankTransfer(amount decimal.Decimal, clamp bool) error {
	if amount.IsNegative() {
		return newValidationError("bank transfer amount cannot be negative")
	}
	if clamp {
		if cash := s.ModalTotals().Cash; amount.GreaterThan(cash) {
			amount = cash
		}
	}
	s.bankTransfer = amount
	return nil
}

// BankTransfer returns the pending reallocation amount.
func (s *CollectionSession) BankTransfer() decimal.Decimal {
	return s.bankTransfer
}

// ExceedsCash reports whether the reallocation exceeds the modal cash total.
// While set, commit is blocked.
func (s *CollectionSession) ExceedsCash() bool {
	return s.bankTransfer.GreaterThan(s.ModalTotals().Cash)
}

// RecordedSplit derives the cash and bank amounts sent to persistence: cash
// reclassified into bank, total unchanged.
func (s *CollectionSession) RecordedSplit() (cash, bank decimal.Decimal) {
	totals := s.ModalTotals()
	return totals.Cash.Sub(s.bankTransfer), totals.Bank.Add(s.bankTransfer)
}

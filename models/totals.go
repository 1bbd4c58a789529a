package models

import (
	"github.com/shopspring/decimal"
)

// Totals is a summary view over session state. Never persisted, always
// recomputed. Total equals Cash plus Bank in every view.
type Totals struct {
	Cash           decimal.Decimal
	Bank           decimal.Decimal
	Total          decimal.Decimal
	Count          int
	NoPaymentCount int
	DeletedCount   int
	Commission     decimal.Decimal
}

// Add accumulates an amount into the cash or bank bucket and keeps Total
// consistent.
func (t *Totals) Add(amount decimal.Decimal, method PaymentMethod) {
	if method == PaymentMethodTransfer {
		t.Bank = t.Bank.Add(amount)
	} else {
		t.Cash = t.Cash.Add(amount)
	}
	t.Total = t.Total.Add(amount)
}

// Combine returns the elementwise sum of two views for cash, bank, total,
// count and commission. NoPaymentCount is taken from t only, DeletedCount
// from other only, matching the disjoint populations they summarize.
func (t Totals) Combine(other Totals) Totals {
	return Totals{
		Cash:           t.Cash.Add(other.Cash),
		Bank:           t.Bank.Add(other.Bank),
		Total:          t.Total.Add(other.Total),
		Count:          t.Count + other.Count,
		NoPaymentCount: t.NoPaymentCount,
		DeletedCount:   other.DeletedCount,
		Commission:     t.Commission.Add(other.Commission),
	}
}

// TotalsSet carries the four views exposed to the caller.
type TotalsSet struct {
	New        Totals
	Registered Totals
	Combined   Totals
	Modal      Totals
}

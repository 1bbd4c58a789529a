package service

import (
	"github.com/shopspring/decimal"
)

var decimalOne = decimal.NewFromInt(1)

// Commission computes the commission earned for a collected amount: a
// collection covering k full weekly installments earns k times the
// per-installment commission, and a partial collection earns none.
//
//	multiplier = floor(amount / expectedWeekly)
//	commission = multiplier >= 1 ? rate * multiplier : 0
//
// Runs as a side effect of SetAmount only; a direct commission override
// bypasses it.
func Commission(amount, expectedWeekly, rate decimal.Decimal) decimal.Decimal {
	if expectedWeekly.Sign() <= 0 {
		return decimal.Zero
	}
	multiplier := amount.Div(expectedWeekly).Floor()
	if multiplier.LessThan(decimalOne) {
		return decimal.Zero
	}
	return rate.Mul(multiplier)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashAccount tracks the physical cash held against a lead's route.
type CashAccount struct {
	ID        int64           `db:"id"`
	LeadID    int64           `db:"lead_id"`
	Balance   decimal.Decimal `db:"balance"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Fine is a penalty recorded against a route's cash account. Shares the
// (lead, day) context of a collection session but sits outside its
// reconciliation invariants.
type Fine struct {
	ID        int64           `db:"id"`
	AccountID int64           `db:"account_id"`
	LeadID    int64           `db:"lead_id"`
	Day       time.Time       `db:"day"`
	Amount    decimal.Decimal `db:"amount"`
	Reason    string          `db:"reason"`
	CreatedAt time.Time       `db:"created_at"`
}

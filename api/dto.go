package api

import (
	"github.com/shopspring/decimal"

	"collector/models"
	"collector/service"
)

// Request bodies

type openSessionRequest struct {
	LeadID int64  `json:"leadId"`
	Day    string `json:"day"` // 2006-01-02
}

type noPaymentRequest struct {
	Shift          bool    `json:"shift"`
	VisibleLoanIDs []int64 `json:"visibleLoanIds"`
}

type weeklyResetRequest struct {
	VisibleLoanIDs []int64 `json:"visibleLoanIds"`
}

type globalCommissionRequest struct {
	Value decimal.Decimal `json:"value"`
	// Draft records the typed value without applying it to entries.
	Draft bool `json:"draft"`
}

// fieldUpdateRequest carries a partial update; only the fields present are
// applied, in a fixed order.
type fieldUpdateRequest struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Commission *decimal.Decimal `json:"commission,omitempty"`
	Method     *string          `json:"method,omitempty"`
}

type adHocLoanRequest struct {
	LoanID int64 `json:"loanId"`
}

type distributionRequest struct {
	BankTransferAmount decimal.Decimal `json:"bankTransferAmount"`
}

type fineRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// Response bodies

type totalsResponse struct {
	Cash           decimal.Decimal `json:"cash"`
	Bank           decimal.Decimal `json:"bank"`
	Total          decimal.Decimal `json:"total"`
	Count          int             `json:"count"`
	NoPaymentCount int             `json:"noPaymentCount"`
	DeletedCount   int             `json:"deletedCount"`
	Commission     decimal.Decimal `json:"commission"`
}

func toTotalsResponse(t models.Totals) totalsResponse {
	return totalsResponse{
		Cash:           t.Cash,
		Bank:           t.Bank,
		Total:          t.Total,
		Count:          t.Count,
		NoPaymentCount: t.NoPaymentCount,
		DeletedCount:   t.DeletedCount,
		Commission:     t.Commission,
	}
}

type entryResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	Method     string          `json:"method"`
	NoPayment  bool            `json:"noPayment"`
}

type committedResponse struct {
	PaymentID  int64           `json:"paymentId"`
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	Method     string          `json:"method"`
}

type editResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	Method     string          `json:"method"`
	Deleted    bool            `json:"deleted"`
}

type rowResponse struct {
	LoanID                int64              `json:"loanId"`
	Borrower              string             `json:"borrower"`
	ExpectedWeeklyPayment decimal.Decimal    `json:"expectedWeeklyPayment"`
	CommissionRate        decimal.Decimal    `json:"commissionRate"`
	Status                string             `json:"status"`
	Entry                 *entryResponse     `json:"entry,omitempty"`
	Committed             *committedResponse `json:"committed,omitempty"`
	Edit                  *editResponse      `json:"edit,omitempty"`
}

type adHocResponse struct {
	TempID     string          `json:"tempId"`
	LoanID     *int64          `json:"loanId"`
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	Method     string          `json:"method"`
}

type distributionResponse struct {
	BankTransfer decimal.Decimal `json:"bankTransferAmount"`
	ExceedsCash  bool            `json:"exceedsCash"`
	CashRecorded decimal.Decimal `json:"cashRecorded"`
	BankRecorded decimal.Decimal `json:"bankRecorded"`
}

type snapshotResponse struct {
	LeadID       int64                     `json:"leadId"`
	Day          string                    `json:"day"`
	Rows         []rowResponse             `json:"rows"`
	AdHoc        []adHocResponse           `json:"adHocEntries"`
	Totals       map[string]totalsResponse `json:"totals"`
	Distribution distributionResponse      `json:"distribution"`
}

func toSnapshotResponse(snapshot *service.SessionSnapshot) snapshotResponse {
	rows := make([]rowResponse, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		out := rowResponse{
			LoanID:                row.Loan.ID,
			Borrower:              row.Loan.Borrower,
			ExpectedWeeklyPayment: row.Loan.ExpectedWeeklyPayment,
			CommissionRate:        row.Loan.CommissionRate,
			Status:                string(row.Status),
		}
		if row.Entry != nil {
			out.Entry = &entryResponse{
				Amount:     row.Entry.Amount,
				Commission: row.Entry.Commission,
				Method:     string(row.Entry.Method),
				NoPayment:  row.Entry.NoPayment,
			}
		}
		if row.Loan.Committed != nil {
			out.Committed = &committedResponse{
				PaymentID:  row.Loan.Committed.ID,
				Amount:     row.Loan.Committed.Amount,
				Commission: row.Loan.Committed.Commission,
				Method:     string(row.Loan.Committed.Method),
			}
		}
		if row.Edit != nil {
			out.Edit = &editResponse{
				Amount:     row.Edit.Amount,
				Commission: row.Edit.Commission,
				Method:     string(row.Edit.Method),
				Deleted:    row.Edit.Deleted,
			}
		}
		rows = append(rows, out)
	}

	adHoc := make([]adHocResponse, 0, len(snapshot.AdHoc))
	for _, entry := range snapshot.AdHoc {
		adHoc = append(adHoc, adHocResponse{
			TempID:     entry.TempID,
			LoanID:     entry.LoanID,
			Amount:     entry.Amount,
			Commission: entry.Commission,
			Method:     string(entry.Method),
		})
	}

	return snapshotResponse{
		LeadID: snapshot.LeadID,
		Day:    snapshot.Day.Format("2006-01-02"),
		Rows:   rows,
		AdHoc:  adHoc,
		Totals: map[string]totalsResponse{
			"new":        toTotalsResponse(snapshot.Totals.New),
			"registered": toTotalsResponse(snapshot.Totals.Registered),
			"combined":   toTotalsResponse(snapshot.Totals.Combined),
			"modal":      toTotalsResponse(snapshot.Totals.Modal),
		},
		Distribution: distributionResponse{
			BankTransfer: snapshot.Distribution.BankTransfer,
			ExceedsCash:  snapshot.Distribution.ExceedsCash,
			CashRecorded: snapshot.Distribution.CashRecorded,
			BankRecorded: snapshot.Distribution.BankRecorded,
		},
	}
}

type bulkCommissionResponse struct {
	AppliedCount int `json:"appliedCount"`
	SkippedCount int `json:"skippedCount"`
}

type commitResponse struct {
	DayRecordID  int64           `json:"dayRecordId"`
	Created      bool            `json:"created"`
	PaymentCount int             `json:"paymentCount"`
	Cash         decimal.Decimal `json:"cash"`
	Bank         decimal.Decimal `json:"bank"`
	Total        decimal.Decimal `json:"total"`
}

type errorResponse struct {
	Error       string `json:"error"`
	ExceedsCash bool   `json:"exceedsCash,omitempty"`
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"collector/models"
	"collector/service"
)

// Handler exposes the collection session operations over HTTP
type Handler struct {
	svc service.CollectionService
}

// NewHandler creates a new Handler
func NewHandler(svc service.CollectionService) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:       validation.Reason,
			ExceedsCash: validation.ExceedsCash,
		})
		return
	}

	var commit *service.CommitError
	if errors.As(err, &commit) {
		log.WithError(err).Error("Commit failed")
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: commit.Error()})
		return
	}

	log.WithError(err).Warn("Request failed")
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return false
	}
	return true
}

func loanIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["loanId"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid loan ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) respondSnapshot(w http.ResponseWriter) {
	snapshot, err := h.svc.Snapshot()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSnapshotResponse(snapshot))
}

// OpenSession starts (or re-enters) the session for a lead and day
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid day, expected YYYY-MM-DD"})
		return
	}

	snapshot, err := h.svc.OpenSession(r.Context(), req.LeadID, day)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSnapshotResponse(snapshot))
}

// GetSession returns the current session snapshot
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respondSnapshot(w)
}

// UpdateEntry applies a partial update to a loan's payment entry
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}
	var req fieldUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Amount != nil {
		if err := h.svc.SetAmount(loanID, *req.Amount); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Commission != nil {
		if err := h.svc.SetCommission(loanID, *req.Commission); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Method != nil {
		if err := h.svc.SetMethod(loanID, models.PaymentMethod(*req.Method)); err != nil {
			respondError(w, err)
			return
		}
	}
	h.respondSnapshot(w)
}

// ToggleNoPayment toggles the no-payment marker, optionally range marking
func (h *Handler) ToggleNoPayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}
	var req noPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ToggleNoPayment(loanID, req.Shift, req.VisibleLoanIDs); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// ResetToWeekly resets entries back to the weekly default
func (h *Handler) ResetToWeekly(w http.ResponseWriter, r *http.Request) {
	var req weeklyResetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.SetAllToWeekly(req.VisibleLoanIDs); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// ClearEntries empties the entry store and ad-hoc list
func (h *Handler) ClearEntries(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearEntries(); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// ApplyGlobalCommission applies (or drafts) a bulk commission override
func (h *Handler) ApplyGlobalCommission(w http.ResponseWriter, r *http.Request) {
	var req globalCommissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Draft {
		if err := h.svc.SetGlobalCommissionInput(req.Value); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusNoContent, nil)
		return
	}

	result, err := h.svc.ApplyGlobalCommission(req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bulkCommissionResponse{
		AppliedCount: result.AppliedCount,
		SkippedCount: result.SkippedCount,
	})
}

// StartEdit opens a pending edit on a committed payment
func (h *Handler) StartEdit(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}
	if err := h.svc.StartEdit(loanID); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// UpdateEdit applies a partial update to a pending edit
func (h *Handler) UpdateEdit(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}
	var req fieldUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Amount != nil {
		if err := h.svc.SetEditAmount(loanID, *req.Amount); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Commission != nil {
		if err := h.svc.SetEditCommission(loanID, *req.Commission); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Method != nil {
		if err := h.svc.SetEditMethod(loanID, models.PaymentMethod(*req.Method)); err != nil {
			respondError(w, err)
			return
		}
	}
	h.respondSnapshot(w)
}

// ToggleDelete flips the deletion marker on a pending edit
func (h *Handler) ToggleDelete(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}
	if err := h.svc.ToggleDelete(loanID); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// CancelEdit discards a pending edit
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}
	if err := h.svc.CancelEdit(loanID); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// AddAdHoc prepends a new ad-hoc entry
func (h *Handler) AddAdHoc(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.AddAdHoc()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, adHocResponse{
		TempID:     entry.TempID,
		LoanID:     entry.LoanID,
		Amount:     entry.Amount,
		Commission: entry.Commission,
		Method:     string(entry.Method),
	})
}

// SetAdHocLoan assigns a roster loan to an ad-hoc entry
func (h *Handler) SetAdHocLoan(w http.ResponseWriter, r *http.Request) {
	tempID := mux.Vars(r)["tempId"]
	var req adHocLoanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.SetAdHocLoan(tempID, req.LoanID); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// UpdateAdHoc applies a partial update to an ad-hoc entry
func (h *Handler) UpdateAdHoc(w http.ResponseWriter, r *http.Request) {
	tempID := mux.Vars(r)["tempId"]
	var req fieldUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Amount != nil {
		if err := h.svc.SetAdHocAmount(tempID, *req.Amount); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Commission != nil {
		if err := h.svc.SetAdHocCommission(tempID, *req.Commission); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Method != nil {
		if err := h.svc.SetAdHocMethod(tempID, models.PaymentMethod(*req.Method)); err != nil {
			respondError(w, err)
			return
		}
	}
	h.respondSnapshot(w)
}

// RemoveAdHoc deletes an ad-hoc entry
func (h *Handler) RemoveAdHoc(w http.ResponseWriter, r *http.Request) {
	tempID := mux.Vars(r)["tempId"]
	if err := h.svc.RemoveAdHoc(tempID); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// AvailableLoans lists the loans an ad-hoc entry may still select
func (h *Handler) AvailableLoans(w http.ResponseWriter, r *http.Request) {
	tempID := mux.Vars(r)["tempId"]
	loans, err := h.svc.AvailableLoans(tempID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]rowResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, rowResponse{
			LoanID:                loan.ID,
			Borrower:              loan.Borrower,
			ExpectedWeeklyPayment: loan.ExpectedWeeklyPayment,
			CommissionRate:        loan.CommissionRate,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// SetDistribution records the cash-to-bank reallocation
func (h *Handler) SetDistribution(w http.ResponseWriter, r *http.Request) {
	var req distributionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.SetBankTransfer(req.BankTransferAmount); err != nil {
		respondError(w, err)
		return
	}
	h.respondSnapshot(w)
}

// Commit persists the session as one atomic batch
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Commit(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, commitResponse{
		DayRecordID:  result.DayRecordID,
		Created:      result.Created,
		PaymentCount: result.PaymentCount,
		Cash:         result.Cash,
		Bank:         result.Bank,
		Total:        result.Total,
	})
}

// GetDaySummary returns a committed day record with its payment rows
func (h *Handler) GetDaySummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leadID, err := strconv.ParseInt(vars["leadId"], 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid lead ID"})
		return
	}
	day, err := time.Parse("2006-01-02", vars["day"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid day, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.svc.GetDaySummary(r.Context(), leadID, day)
	if err != nil {
		respondError(w, err)
		return
	}
	if summary == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "no day record"})
		return
	}

	payments := make([]committedResponse, 0, len(summary.Payments))
	for _, payment := range summary.Payments {
		payments = append(payments, committedResponse{
			PaymentID:  payment.ID,
			Amount:     payment.Amount,
			Commission: payment.Commission,
			Method:     string(payment.Method),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"record": map[string]any{
			"id":             summary.Record.ID,
			"leadId":         summary.Record.LeadID,
			"day":            summary.Record.Day.Format("2006-01-02"),
			"expectedAmount": summary.Record.ExpectedAmount,
			"paidAmount":     summary.Record.PaidAmount,
			"cashAmount":     summary.Record.CashAmount,
			"bankAmount":     summary.Record.BankAmount,
		},
		"payments": payments,
	})
}

// RecordFine debits a fine from the session lead's cash account
func (h *Handler) RecordFine(w http.ResponseWriter, r *http.Request) {
	var req fineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	fine, err := h.svc.RecordFine(r.Context(), req.Amount, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":     fine.ID,
		"amount": fine.Amount,
		"reason": fine.Reason,
		"day":    fine.Day.Format("2006-01-02"),
	})
}

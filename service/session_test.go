package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collector/models"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testLoan(id, weekly, rate int64) *models.Loan {
	return &models.Loan{
		ID:                    id,
		LeadID:                1,
		Borrower:              fmt.Sprintf("Borrower %d", id),
		ExpectedWeeklyPayment: decimal.NewFromInt(weekly),
		CommissionRate:        decimal.NewFromInt(rate),
		Active:                true,
	}
}

func committedLoan(id, weekly, rate, paymentID, amount int64, method models.PaymentMethod) *models.Loan {
	loan := testLoan(id, weekly, rate)
	loan.Committed = &models.CommittedPayment{
		ID:         paymentID,
		LoanID:     id,
		Amount:     decimal.NewFromInt(amount),
		Commission: decimal.NewFromInt(rate),
		Method:     method,
	}
	return loan
}

func newTestSession(t *testing.T, loans ...*models.Loan) *CollectionSession {
	t.Helper()
	sess := NewCollectionSession(1, testDay)
	require.NoError(t, sess.ApplyRoster(1, testDay, loans))
	return sess
}

func TestCollectionSession_ApplyRoster(t *testing.T) {
	t.Run("initializes one entry per loan with weekly defaults", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20), testLoan(2, 300, 10))

		entry := sess.Entry(1)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(500)))
		assert.True(t, entry.Commission.Equal(decimal.NewFromInt(20)))
		assert.True(t, entry.InitialCommission.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, models.PaymentMethodCash, entry.Method)
		assert.False(t, entry.NoPayment)

		entry = sess.Entry(2)
		require.NotNil(t, entry)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(300)))
	})

	t.Run("refetch does not clobber in-progress entries", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(750)))

		require.NoError(t, sess.ApplyRoster(1, testDay, []*models.Loan{testLoan(1, 500, 20)}))

		assert.True(t, sess.Entry(1).Amount.Equal(decimal.NewFromInt(750)))
	})

	t.Run("response for another lead is stale", func(t *testing.T) {
		sess := NewCollectionSession(1, testDay)
		err := sess.ApplyRoster(2, testDay, nil)

		var stale *StaleSessionError
		require.ErrorAs(t, err, &stale)
		assert.Equal(t, int64(1), stale.WantLeadID)
		assert.Equal(t, int64(2), stale.GotLeadID)
	})

	t.Run("response for another day is stale", func(t *testing.T) {
		sess := NewCollectionSession(1, testDay)
		err := sess.ApplyRoster(1, testDay.AddDate(0, 0, 1), nil)

		var stale *StaleSessionError
		assert.ErrorAs(t, err, &stale)
	})

	t.Run("timestamps on the same day are not stale", func(t *testing.T) {
		sess := NewCollectionSession(1, testDay)
		noon := testDay.Add(12 * time.Hour)
		assert.NoError(t, sess.ApplyRoster(1, noon, []*models.Loan{testLoan(1, 500, 20)}))
	})
}

func TestCollectionSession_SetAmount(t *testing.T) {
	sess := newTestSession(t, testLoan(1, 500, 20))

	t.Run("recomputes commission from the weekly installment", func(t *testing.T) {
		require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(1000)))
		entry := sess.Entry(1)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(1000)))
		assert.True(t, entry.Commission.Equal(decimal.NewFromInt(40)))
	})

	t.Run("partial amount drops commission to zero", func(t *testing.T) {
		require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(400)))
		assert.True(t, sess.Entry(1).Commission.IsZero())
	})

	t.Run("clears the no-payment marker", func(t *testing.T) {
		require.NoError(t, sess.ToggleNoPayment(1, false, nil))
		require.True(t, sess.Entry(1).NoPayment)

		require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(500)))
		assert.False(t, sess.Entry(1).NoPayment)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		err := sess.SetAmount(1, decimal.NewFromInt(-1))
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown loan", func(t *testing.T) {
		assert.Error(t, sess.SetAmount(99, decimal.NewFromInt(100)))
	})
}

func TestCollectionSession_SetCommission_NoRecompute(t *testing.T) {
	sess := newTestSession(t, testLoan(1, 500, 20))

	require.NoError(t, sess.SetCommission(1, decimal.NewFromInt(35)))
	assert.True(t, sess.Entry(1).Commission.Equal(decimal.NewFromInt(35)))

	// A manual override survives until the amount changes again
	require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(500)))
	assert.True(t, sess.Entry(1).Commission.Equal(decimal.NewFromInt(20)))
}

func TestCollectionSession_SetMethod(t *testing.T) {
	sess := newTestSession(t, testLoan(1, 500, 20))

	require.NoError(t, sess.SetMethod(1, models.PaymentMethodTransfer))
	assert.Equal(t, models.PaymentMethodTransfer, sess.Entry(1).Method)

	err := sess.SetMethod(1, models.PaymentMethod("cheque"))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCollectionSession_ToggleNoPayment(t *testing.T) {
	t.Run("marking zeroes amount and commission", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))

		require.NoError(t, sess.ToggleNoPayment(1, false, []int64{1}))

		entry := sess.Entry(1)
		assert.True(t, entry.NoPayment)
		assert.True(t, entry.Amount.IsZero())
		assert.True(t, entry.Commission.IsZero())
	})

	t.Run("unmarking clears the flag but keeps the zero amount", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		require.NoError(t, sess.ToggleNoPayment(1, false, []int64{1}))

		require.NoError(t, sess.ToggleNoPayment(1, false, []int64{1}))

		entry := sess.Entry(1)
		assert.False(t, entry.NoPayment)
		assert.True(t, entry.Amount.IsZero())
	})

	t.Run("shift marks the whole range since the last toggle", func(t *testing.T) {
		sess := newTestSession(t,
			testLoan(1, 500, 20), testLoan(2, 500, 20), testLoan(3, 500, 20),
			testLoan(4, 500, 20), testLoan(5, 500, 20))
		visible := []int64{1, 2, 3, 4, 5}

		require.NoError(t, sess.ToggleNoPayment(1, false, visible))
		require.NoError(t, sess.ToggleNoPayment(3, true, visible))

		for _, id := range []int64{1, 2, 3} {
			assert.True(t, sess.Entry(id).NoPayment, "loan %d should be marked", id)
		}
		for _, id := range []int64{4, 5} {
			assert.False(t, sess.Entry(id).NoPayment, "loan %d should not be marked", id)
		}
	})

	t.Run("shift range marks, never unmarks", func(t *testing.T) {
		sess := newTestSession(t,
			testLoan(1, 500, 20), testLoan(2, 500, 20), testLoan(3, 500, 20))
		visible := []int64{1, 2, 3}

		require.NoError(t, sess.ToggleNoPayment(2, false, visible))
		require.True(t, sess.Entry(2).NoPayment)

		require.NoError(t, sess.ToggleNoPayment(1, true, visible))
		require.NoError(t, sess.ToggleNoPayment(3, true, visible))

		// 2 stayed marked through both ranges
		for _, id := range []int64{1, 2, 3} {
			assert.True(t, sess.Entry(id).NoPayment, "loan %d should be marked", id)
		}
	})

	t.Run("shift without a prior anchor falls back to a single toggle", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20), testLoan(2, 500, 20))
		visible := []int64{1, 2}

		require.NoError(t, sess.ToggleNoPayment(2, true, visible))

		assert.False(t, sess.Entry(1).NoPayment)
		assert.True(t, sess.Entry(2).NoPayment)
	})

	t.Run("range anchor follows the visible ordering", func(t *testing.T) {
		sess := newTestSession(t,
			testLoan(1, 500, 20), testLoan(2, 500, 20), testLoan(3, 500, 20))
		// Sorted differently than the roster
		visible := []int64{3, 1, 2}

		require.NoError(t, sess.ToggleNoPayment(3, false, visible))
		require.NoError(t, sess.ToggleNoPayment(1, true, visible))

		assert.True(t, sess.Entry(3).NoPayment)
		assert.True(t, sess.Entry(1).NoPayment)
		assert.False(t, sess.Entry(2).NoPayment)
	})
}

func TestMarkRange(t *testing.T) {
	visible := []int64{10, 20, 30, 40, 50}

	t.Run("forward", func(t *testing.T) {
		assert.Equal(t, []int64{20, 30, 40}, MarkRange(visible, 1, 3))
	})

	t.Run("backward", func(t *testing.T) {
		assert.Equal(t, []int64{20, 30, 40}, MarkRange(visible, 3, 1))
	})

	t.Run("single element", func(t *testing.T) {
		assert.Equal(t, []int64{30}, MarkRange(visible, 2, 2))
	})

	t.Run("negative index", func(t *testing.T) {
		assert.Nil(t, MarkRange(visible, -1, 2))
	})

	t.Run("index past the end", func(t *testing.T) {
		assert.Nil(t, MarkRange(visible, 0, 5))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Nil(t, MarkRange(nil, 0, 0))
	})
}

func TestCollectionSession_SetAllToWeekly(t *testing.T) {
	sess := newTestSession(t, testLoan(1, 500, 20), testLoan(2, 300, 10))

	require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(50)))
	require.NoError(t, sess.SetMethod(1, models.PaymentMethodTransfer))
	require.NoError(t, sess.ToggleNoPayment(2, false, nil))

	sess.SetAllToWeekly([]int64{1, 2})

	entry := sess.Entry(1)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, entry.Commission.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, models.PaymentMethodCash, entry.Method)

	entry = sess.Entry(2)
	assert.False(t, entry.NoPayment)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(300)))
}

func TestCollectionSession_SetAllToWeekly_OnlyVisibleSubset(t *testing.T) {
	sess := newTestSession(t, testLoan(1, 500, 20), testLoan(2, 300, 10))
	require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(50)))
	require.NoError(t, sess.SetAmount(2, decimal.NewFromInt(60)))

	sess.SetAllToWeekly([]int64{1})

	assert.True(t, sess.Entry(1).Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, sess.Entry(2).Amount.Equal(decimal.NewFromInt(60)))
}

func TestCollectionSession_ClearAll(t *testing.T) {
	sess := newTestSession(t, testLoan(1, 500, 20))
	sess.AddAdHoc()

	sess.ClearAll()

	assert.Nil(t, sess.Entry(1))
	assert.Empty(t, sess.AdHocEntries())
}

func TestCollectionSession_Reset(t *testing.T) {
	sess := newTestSession(t,
		testLoan(1, 500, 20),
		committedLoan(2, 300, 10, 11, 300, models.PaymentMethodCash))

	require.NoError(t, sess.SetAmount(1, decimal.NewFromInt(750)))
	require.NoError(t, sess.StartEdit(2))
	sess.SetGlobalCommissionInput(decimal.NewFromInt(15))
	sess.AddAdHoc()
	require.NoError(t, sess.SetBankTransfer(decimal.NewFromInt(100), false))

	sess.Reset()

	assert.Nil(t, sess.Entry(1))
	assert.Nil(t, sess.Edit(2))
	assert.False(t, sess.HasEdits())
	assert.Empty(t, sess.AdHocEntries())
	assert.True(t, sess.BankTransfer().IsZero())
	// The next ad-hoc entry no longer inherits the old commission input
	assert.True(t, sess.AddAdHoc().Commission.IsZero())
}

func TestCollectionSession_ApplyGlobalCommission(t *testing.T) {
	t.Run("overrides eligible entries and counts the rest", func(t *testing.T) {
		sess := newTestSession(t,
			testLoan(1, 500, 20), // eligible
			testLoan(2, 300, 0),  // zero initial commission, skipped
			testLoan(3, 400, 15), // no-payment, ignored
			testLoan(4, 200, 10)) // zero amount, ignored
		require.NoError(t, sess.ToggleNoPayment(3, false, nil))
		require.NoError(t, sess.SetAmount(4, decimal.Zero))

		result, err := sess.ApplyGlobalCommission(decimal.NewFromInt(25))
		require.NoError(t, err)

		assert.Equal(t, 1, result.AppliedCount)
		assert.Equal(t, 1, result.SkippedCount)
		assert.True(t, sess.Entry(1).Commission.Equal(decimal.NewFromInt(25)))
		assert.True(t, sess.Entry(2).Commission.IsZero())
		assert.True(t, sess.Entry(4).Commission.IsZero())
	})

	t.Run("zero initial commission stays skipped after edits", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 0))
		// A manual override does not make the loan eligible
		require.NoError(t, sess.SetCommission(1, decimal.NewFromInt(5)))

		result, err := sess.ApplyGlobalCommission(decimal.NewFromInt(25))
		require.NoError(t, err)

		assert.Equal(t, 0, result.AppliedCount)
		assert.Equal(t, 1, result.SkippedCount)
		assert.True(t, sess.Entry(1).Commission.Equal(decimal.NewFromInt(5)))
	})

	t.Run("rejects negative value", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		_, err := sess.ApplyGlobalCommission(decimal.NewFromInt(-1))
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestCollectionSession_GlobalCommissionInput_SeedsAdHoc(t *testing.T) {
	sess := newTestSession(t, testLoan(1, 500, 20))

	sess.SetGlobalCommissionInput(decimal.NewFromInt(15))
	entry := sess.AddAdHoc()

	assert.True(t, entry.Commission.Equal(decimal.NewFromInt(15)))
}

func TestCollectionSession_EditLifecycle(t *testing.T) {
	t.Run("start copies the committed values", func(t *testing.T) {
		sess := newTestSession(t, committedLoan(1, 500, 20, 11, 500, models.PaymentMethodCash))

		require.NoError(t, sess.StartEdit(1))

		edit := sess.Edit(1)
		require.NotNil(t, edit)
		assert.Equal(t, int64(11), edit.PaymentID)
		assert.True(t, edit.Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, models.PaymentMethodCash, edit.Method)
		assert.False(t, edit.Deleted)
		assert.True(t, sess.HasEdits())
	})

	t.Run("restart is a no-op", func(t *testing.T) {
		sess := newTestSession(t, committedLoan(1, 500, 20, 11, 500, models.PaymentMethodCash))
		require.NoError(t, sess.StartEdit(1))
		require.NoError(t, sess.SetEditAmount(1, decimal.NewFromInt(200)))

		require.NoError(t, sess.StartEdit(1))

		assert.True(t, sess.Edit(1).Amount.Equal(decimal.NewFromInt(200)))
	})

	t.Run("uncommitted loan cannot be edited", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		err := sess.StartEdit(1)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("toggle delete flips and restores", func(t *testing.T) {
		sess := newTestSession(t, committedLoan(1, 500, 20, 11, 500, models.PaymentMethodCash))
		require.NoError(t, sess.StartEdit(1))

		require.NoError(t, sess.ToggleDelete(1))
		assert.True(t, sess.Edit(1).Deleted)

		require.NoError(t, sess.ToggleDelete(1))
		assert.False(t, sess.Edit(1).Deleted)
	})

	t.Run("cancel reverts to the committed display", func(t *testing.T) {
		sess := newTestSession(t, committedLoan(1, 500, 20, 11, 500, models.PaymentMethodCash))
		require.NoError(t, sess.StartEdit(1))
		require.NoError(t, sess.SetEditAmount(1, decimal.NewFromInt(900)))
		require.NoError(t, sess.ToggleDelete(1))

		require.NoError(t, sess.CancelEdit(1))

		assert.Nil(t, sess.Edit(1))
		assert.False(t, sess.HasEdits())
		assert.Equal(t, models.EntryStatusRegistered, sess.EntryStatus(1))

		// The committed values count normally again, not as deleted
		totals := sess.RegisteredTotals()
		assert.True(t, totals.Total.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, 1, totals.Count)
		assert.Equal(t, 0, totals.DeletedCount)
	})

	t.Run("field updates require a started edit", func(t *testing.T) {
		sess := newTestSession(t, committedLoan(1, 500, 20, 11, 500, models.PaymentMethodCash))
		assert.Error(t, sess.SetEditAmount(1, decimal.NewFromInt(100)))
		assert.Error(t, sess.ToggleDelete(1))
		assert.Error(t, sess.CancelEdit(1))
	})
}

func TestCollectionSession_AdHoc(t *testing.T) {
	t.Run("add prepends with cash and no loan", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))

		first := sess.AddAdHoc()
		second := sess.AddAdHoc()

		entries := sess.AdHocEntries()
		require.Len(t, entries, 2)
		assert.Equal(t, second.TempID, entries[0].TempID)
		assert.Equal(t, first.TempID, entries[1].TempID)
		assert.False(t, first.HasLoan())
		assert.Equal(t, models.PaymentMethodCash, first.Method)
		assert.NotEqual(t, first.TempID, second.TempID)
	})

	t.Run("selecting a loan fills commission and defaults the amount", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		entry := sess.AddAdHoc()

		require.NoError(t, sess.SetAdHocLoan(entry.TempID, 1))

		assert.True(t, entry.HasLoan())
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(500)))
		assert.True(t, entry.Commission.Equal(decimal.NewFromInt(20)))
	})

	t.Run("a typed amount survives loan selection", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		entry := sess.AddAdHoc()
		require.NoError(t, sess.SetAdHocAmount(entry.TempID, decimal.NewFromInt(123)))

		require.NoError(t, sess.SetAdHocLoan(entry.TempID, 1))

		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(123)))
	})

	t.Run("a loan can back only one entry", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		first := sess.AddAdHoc()
		second := sess.AddAdHoc()
		require.NoError(t, sess.SetAdHocLoan(first.TempID, 1))

		err := sess.SetAdHocLoan(second.TempID, 1)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("available loans exclude other entries' selections", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20), testLoan(2, 300, 10))
		first := sess.AddAdHoc()
		second := sess.AddAdHoc()
		require.NoError(t, sess.SetAdHocLoan(first.TempID, 1))

		available := sess.AvailableLoansFor(second.TempID)
		require.Len(t, available, 1)
		assert.Equal(t, int64(2), available[0].ID)

		// The entry's own selection stays available to itself
		available = sess.AvailableLoansFor(first.TempID)
		assert.Len(t, available, 2)
	})

	t.Run("removing an entry frees its loan", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		first := sess.AddAdHoc()
		second := sess.AddAdHoc()
		require.NoError(t, sess.SetAdHocLoan(first.TempID, 1))

		require.NoError(t, sess.RemoveAdHoc(first.TempID))

		assert.Len(t, sess.AdHocEntries(), 1)
		assert.NoError(t, sess.SetAdHocLoan(second.TempID, 1))
	})

	t.Run("unknown entry", func(t *testing.T) {
		sess := newTestSession(t, testLoan(1, 500, 20))
		assert.Error(t, sess.SetAdHocAmount("missing", decimal.NewFromInt(10)))
		assert.Error(t, sess.RemoveAdHoc("missing"))
	})
}

func TestCollectionSession_EntryStatus(t *testing.T) {
	sess := newTestSession(t,
		testLoan(1, 500, 20),
		testLoan(2, 500, 20),
		committedLoan(3, 500, 20, 11, 500, models.PaymentMethodCash),
		committedLoan(4, 500, 20, 12, 500, models.PaymentMethodCash),
		committedLoan(5, 500, 20, 13, 500, models.PaymentMethodCash))

	require.NoError(t, sess.ToggleNoPayment(2, false, nil))
	require.NoError(t, sess.StartEdit(4))
	require.NoError(t, sess.StartEdit(5))
	require.NoError(t, sess.ToggleDelete(5))

	assert.Equal(t, models.EntryStatusPending, sess.EntryStatus(1))
	assert.Equal(t, models.EntryStatusNoPayment, sess.EntryStatus(2))
	assert.Equal(t, models.EntryStatusRegistered, sess.EntryStatus(3))
	assert.Equal(t, models.EntryStatusEdited, sess.EntryStatus(4))
	assert.Equal(t, models.EntryStatusDeleted, sess.EntryStatus(5))
}

func TestCollectionSession_NewPayments(t *testing.T) {
	sess := newTestSession(t,
		testLoan(1, 500, 20),
		testLoan(2, 300, 10),
		committedLoan(3, 400, 15, 11, 400, models.PaymentMethodCash))

	// Zero amounts are left out of the batch
	require.NoError(t, sess.SetAmount(2, decimal.Zero))

	adHoc := sess.AddAdHoc()
	require.NoError(t, sess.SetAdHocLoan(adHoc.TempID, 1))

	// An ad-hoc entry without a loan never commits
	sess.AddAdHoc()

	rows := sess.NewPayments()
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].LoanID)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, int64(1), rows[1].LoanID)
}

func TestCollectionSession_PaymentRevisions(t *testing.T) {
	sess := newTestSession(t,
		testLoan(1, 500, 20),
		committedLoan(2, 500, 20, 11, 500, models.PaymentMethodCash),
		committedLoan(3, 300, 10, 12, 300, models.PaymentMethodTransfer))

	require.NoError(t, sess.StartEdit(2))
	require.NoError(t, sess.SetEditAmount(2, decimal.NewFromInt(650)))

	rows := sess.PaymentRevisions()
	require.Len(t, rows, 2)

	// Edited loan carries the new values
	assert.Equal(t, int64(11), rows[0].PaymentID)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(650)))

	// Untouched loan is resent unchanged
	assert.Equal(t, int64(12), rows[1].PaymentID)
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, models.PaymentMethodTransfer, rows[1].Method)
}

func TestCollectionSession_ExpectedTotal(t *testing.T) {
	sess := newTestSession(t,
		testLoan(1, 500, 20),
		testLoan(2, 300, 10),
		committedLoan(3, 400, 15, 11, 400, models.PaymentMethodCash))

	assert.True(t, sess.ExpectedTotal().Equal(decimal.NewFromInt(800)))
}

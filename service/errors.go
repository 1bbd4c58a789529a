package service

import (
	"fmt"
	"time"
)

// ValidationError reports a pre-commit rule violation. No persistence call
// was issued; session state is untouched.
type ValidationError struct {
	Reason      string
	ExceedsCash bool
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CommitError wraps a failed create/update batch call. All local session
// state is preserved so the caller can retry without re-entering data.
type CommitError struct {
	Op  string // "create" or "update"
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit (%s) failed: %v", e.Op, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// StaleSessionError marks a fetch response that arrived after the session's
// (lead, day) changed. It is discarded silently and never surfaced to the
// caller.
type StaleSessionError struct {
	WantLeadID int64
	WantDay    time.Time
	GotLeadID  int64
	GotDay     time.Time
}

func (e *StaleSessionError) Error() string {
	return fmt.Sprintf("stale response for lead %d day %s, session is lead %d day %s",
		e.GotLeadID, e.GotDay.Format("2006-01-02"), e.WantLeadID, e.WantDay.Format("2006-01-02"))
}

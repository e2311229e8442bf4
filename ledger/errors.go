package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAmount is returned for deposits and withdrawals of non-positive
	// amounts.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")
	// ErrInsufficientFunds is returned by Withdraw when the balance is non-zero
	// but lower than the requested amount. It is a regular outcome, not a fault.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrOverflow is returned when a deposit would overflow the balance.
	ErrOverflow = errors.New("ledger: balance overflow")
	// ErrTimeout is returned when a bounded withdrawal gives up waiting. Errors
	// matching ErrTimeout also match context.DeadlineExceeded.
	ErrTimeout = errors.New("ledger: timed out waiting for funds")
)

// Outcome classifies the result of a ledger operation.
type Outcome int

const (
	// Completed means the balance was changed as requested.
	Completed Outcome = iota
	// Rejected means the operation was refused by the balance check
	// (insufficient funds or overflow).
	Rejected
	// TimedOut means a bounded wait expired.
	TimedOut
	// Canceled means the wait was interrupted by something other than a deadline.
	Canceled
	// Invalid means the arguments were refused before touching the ledger.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Rejected:
		return "rejected"
	case TimedOut:
		return "timed_out"
	case Canceled:
		return "canceled"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// OutcomeOf classifies an error returned by a Ledger method. A nil error is
// Completed. Errors not produced by a Ledger are reported as Canceled, since
// the only foreign errors a Ledger passes through are context causes.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Completed
	case errors.Is(err, ErrInvalidAmount):
		return Invalid
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrOverflow):
		return Rejected
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return TimedOut
	default:
		return Canceled
	}
}

// Package ledgertest provides utilities for testing code built on ledger.Ledger.
// The package runs a script of deposits and withdrawals concurrently and
// verifies that no update was lost along the way.
//
// # Overview
//
// The primary function [Test] executes a list of [Op] values concurrently
// against a fresh ledger and checks the conservation invariant:
//
//	final balance = initial + completed deposits - completed withdrawals
//
// # Example Usage
//
//	ops := []ledgertest.Op{
//		{Token: "withdraw", Kind: ledgertest.Withdraw, Amount: 100},
//		{Token: "deposit", Kind: ledgertest.Deposit, Amount: 100},
//	}
//	l := ledgertest.Test(t, 0, ops)
//
// The withdrawal parks until the deposit arrives, whatever order the
// goroutines are scheduled in.
package ledgertest

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/sync/ledger"
)

// Deadline bounds how long Run waits for withdrawals without a Timeout.
const Deadline = 10 * time.Second

// Kind selects the ledger method an Op calls.
type Kind int

const (
	// Deposit calls Ledger.Deposit.
	Deposit Kind = iota
	// Withdraw calls Ledger.WithdrawContext.
	Withdraw
	// WithdrawCovered calls Ledger.WithdrawCovered.
	WithdrawCovered
)

func (k Kind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdraw:
		return "withdraw"
	case WithdrawCovered:
		return "withdraw-covered"
	default:
		return "unknown"
	}
}

// Op is a single step of a concurrent ledger script.
type Op struct {
	// Token identifies the step in failure messages.
	Token string
	// Kind selects the ledger method.
	Kind Kind
	// Amount is passed to the ledger method as-is; non-positive amounts are
	// expected to fail with ledger.ErrInvalidAmount.
	Amount int64
	// Timeout bounds a withdrawal's wait. Zero means the withdrawal waits until
	// the end of the test run, and failing to unblock by then is reported as a
	// test error.
	Timeout time.Duration
}

// Result records what happened to an Op.
type Result struct {
	Op  Op
	Err error
}

// Outcome classifies the result's error.
func (r Result) Outcome() ledger.Outcome {
	return ledger.OutcomeOf(r.Err)
}

// Test creates a ledger holding initial, runs ops against it, checks the
// results, and returns the ledger for further assertions.
func Test(t *testing.T, initial int64, ops []Op, opts ...ledger.Option) *ledger.Ledger {
	t.Helper()
	l := ledger.New(initial, opts...)
	results := Run(t, l, ops)
	Check(t, initial, l.Balance(), results)
	return l
}

// Run executes ops concurrently against l and returns their results in
// completion order.
//
// Goroutines are spawned in reverse order to stress the ledger's waiting
// logic: withdrawals listed after deposits tend to start first. Withdrawals
// without a Timeout are bounded by Deadline; running into that bound is
// reported as a test error.
func Run(t testing.TB, l *ledger.Ledger, ops []Op) []Result {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Deadline)
	defer cancel()

	var (
		mu      sync.Mutex
		results []Result
	)
	var g errgroup.Group
	for _, op := range slices.Backward(ops) {
		g.Go(func() error {
			err := apply(ctx, l, op)
			if op.Timeout == 0 && op.Kind != Deposit && errors.Is(err, ledger.ErrTimeout) {
				t.Errorf("%v %v: never unblocked: %v", op.Kind, op.Token, err)
			}
			t.Logf("%v %v of %v: %v", op.Kind, op.Token, op.Amount, ledger.OutcomeOf(err))

			mu.Lock()
			results = append(results, Result{Op: op, Err: err})
			mu.Unlock()
			return nil
		})
	}
	// The goroutines never return errors; failures are recorded in results.
	_ = g.Wait()
	return results
}

func apply(ctx context.Context, l *ledger.Ledger, op Op) error {
	if op.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, op.Timeout)
		defer cancel()
	}
	switch op.Kind {
	case Deposit:
		return l.Deposit(op.Amount)
	case Withdraw:
		return l.WithdrawContext(ctx, op.Amount)
	case WithdrawCovered:
		return l.WithdrawCovered(ctx, op.Amount)
	default:
		panic("ledgertest: unknown op kind")
	}
}

// Check verifies that the final balance equals the initial balance plus all
// completed deposits minus all completed withdrawals, and that every failed
// Op failed for a reason the ledger documents.
func Check(t testing.TB, initial, final int64, results []Result) {
	t.Helper()

	want := initial
	for _, r := range results {
		switch r.Outcome() {
		case ledger.Completed:
			if r.Op.Kind == Deposit {
				want += r.Op.Amount
			} else {
				want -= r.Op.Amount
			}
		case ledger.Invalid:
			if r.Op.Amount > 0 {
				t.Errorf("%v %v: rejected a valid amount %v: %v", r.Op.Kind, r.Op.Token, r.Op.Amount, r.Err)
			}
		case ledger.Rejected, ledger.TimedOut:
			// Legitimate outcomes that leave the balance untouched.
		default:
			t.Errorf("%v %v: unexpected error: %v", r.Op.Kind, r.Op.Token, r.Err)
		}
		if r.Op.Amount <= 0 && r.Outcome() != ledger.Invalid {
			t.Errorf("%v %v: accepted invalid amount %v", r.Op.Kind, r.Op.Token, r.Op.Amount)
		}
	}
	if final != want {
		t.Errorf("lost update: final balance is %v, want %v", final, want)
	}
}

// Totals sums the amounts of completed deposits and withdrawals.
func Totals(results []Result) (deposited, withdrawn int64) {
	for _, r := range results {
		if r.Outcome() != ledger.Completed {
			continue
		}
		if r.Op.Kind == Deposit {
			deposited += r.Op.Amount
		} else {
			withdrawn += r.Op.Amount
		}
	}
	return deposited, withdrawn
}

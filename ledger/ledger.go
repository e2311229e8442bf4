package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notorious-go/sync/cond"
)

// Ledger is a balance shared between depositing and withdrawing goroutines.
// It is safe for concurrent use and must be created with New.
type Ledger struct {
	name    string
	log     logrus.FieldLogger
	metrics *metrics

	// mu guards balance.
	mu      sync.Mutex
	balance int64
	// nonzero parks withdrawals waiting for balance != 0.
	nonzero *cond.Cond
	// covered parks withdrawals waiting for balance >= their amount.
	covered *cond.Cond
}

// New returns a Ledger holding the initial balance, which may be any value,
// including zero or a negative amount.
func New(initial int64, opts ...Option) *Ledger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := &Ledger{
		name:    o.name,
		log:     o.logger.WithField("ledger", o.name),
		metrics: newMetrics(o.registerer, o.name),
		balance: initial,
	}
	l.nonzero = cond.New(&l.mu)
	l.covered = cond.New(&l.mu)
	l.metrics.balance.Set(float64(initial))
	return l
}

// Balance returns the current balance.
func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Waiting returns the number of withdrawals currently parked waiting for
// funds.
func (l *Ledger) Waiting() int {
	return l.nonzero.Len() + l.covered.Len()
}

// String returns a human-readable representation of the ledger's state.
func (l *Ledger) String() string {
	return fmt.Sprintf("Ledger(%v, balance=%v, waiting=%v)", l.name, l.Balance(), l.Waiting())
}

// Deposit adds amount to the balance and wakes one goroutine waiting for a
// non-zero balance, along with every goroutine waiting in WithdrawCovered.
// Deposit never waits for anything but the ledger's mutex.
func (l *Ledger) Deposit(amount int64) (err error) {
	defer func() { l.metrics.observeDeposit(err) }()
	if amount <= 0 {
		return fmt.Errorf("%w: deposit of %v", ErrInvalidAmount, amount)
	}

	balance, err := l.credit(amount)
	if err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"action":  "ledger_deposit",
		"amount":  amount,
		"balance": balance,
	}).Debug("amount deposited")

	// The wake-ups happen after the mutex is released, so woken goroutines do
	// not immediately block on it again.
	l.nonzero.Signal()
	l.covered.Broadcast()
	return nil
}

func (l *Ledger) credit(amount int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance > math.MaxInt64-amount {
		return l.balance, fmt.Errorf("%w: deposit of %v on balance %v", ErrOverflow, amount, l.balance)
	}
	l.balance += amount
	l.metrics.balance.Set(float64(l.balance))
	return l.balance, nil
}

// Withdraw subtracts amount from the balance.
//
// If the balance is zero, Withdraw waits until a deposit makes it non-zero.
// It does not wait for the balance to cover the amount: a non-zero balance
// lower than amount is rejected with ErrInsufficientFunds. Use WithdrawCovered
// to wait for coverage instead.
func (l *Ledger) Withdraw(amount int64) error {
	return l.withdraw(context.Background(), amount, false)
}

// WithdrawContext is like Withdraw, but gives up waiting for a non-zero
// balance when ctx is done. If ctx's deadline expired, the returned error
// matches ErrTimeout; otherwise it wraps the context's cause.
//
// A context that is already done does not prevent a withdrawal from a
// non-zero balance, since no waiting is involved.
func (l *Ledger) WithdrawContext(ctx context.Context, amount int64) error {
	return l.withdraw(ctx, amount, false)
}

// WithdrawTimeout is like Withdraw, but gives up waiting for a non-zero
// balance after d, returning an error matching ErrTimeout.
func (l *Ledger) WithdrawTimeout(amount int64, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return l.withdraw(ctx, amount, false)
}

// WithdrawCovered subtracts amount from the balance once the balance is at
// least amount, waiting as long as needed or until ctx is done. It never
// returns ErrInsufficientFunds.
//
// This is stricter than Withdraw, which only waits for a non-zero balance.
func (l *Ledger) WithdrawCovered(ctx context.Context, amount int64) error {
	return l.withdraw(ctx, amount, true)
}

// withdraw implements every withdrawal flavour. When strict is set, the wait
// predicate is balance >= amount rather than balance != 0.
func (l *Ledger) withdraw(ctx context.Context, amount int64, strict bool) (err error) {
	defer func() { l.metrics.observeWithdrawal(err) }()
	if amount <= 0 {
		return fmt.Errorf("%w: withdrawal of %v", ErrInvalidAmount, amount)
	}

	signal, ready := l.nonzero, func() bool { return l.balance != 0 }
	if strict {
		signal, ready = l.covered, func() bool { return l.balance >= amount }
	}

	l.mu.Lock()
	defer l.release()

	for !ready() {
		l.log.WithFields(logrus.Fields{
			"action":  "ledger_withdraw_wait",
			"amount":  amount,
			"balance": l.balance,
		}).Debug("waiting for funds")

		l.metrics.waiting.Inc()
		woken := signal.Wait(ctx.Done())
		l.metrics.waiting.Dec()
		if !woken {
			return l.interrupted(ctx, amount)
		}
	}

	if l.balance < amount {
		return fmt.Errorf("%w: withdrawal of %v from balance %v", ErrInsufficientFunds, amount, l.balance)
	}
	l.balance -= amount
	l.metrics.balance.Set(float64(l.balance))
	l.log.WithFields(logrus.Fields{
		"action":  "ledger_withdraw",
		"amount":  amount,
		"balance": l.balance,
	}).Debug("amount withdrawn")
	return nil
}

// release unlocks the mutex held by a withdrawal. If funds remain, the
// wake-up that let this withdrawal through is passed on to the next goroutine
// waiting for a non-zero balance.
func (l *Ledger) release() {
	remaining := l.balance != 0
	l.mu.Unlock()
	if remaining {
		l.nonzero.Signal()
	}
}

// interrupted builds the error of a wait cut short by ctx.
func (l *Ledger) interrupted(ctx context.Context, amount int64) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		l.log.WithFields(logrus.Fields{
			"action":  "ledger_withdraw_wait",
			"amount":  amount,
			"balance": l.balance,
		}).Warn("timed out waiting for funds")
		return fmt.Errorf("%w: withdrawal of %v: %w", ErrTimeout, amount, ctx.Err())
	}
	return fmt.Errorf("ledger: withdrawal of %v: %w", amount, context.Cause(ctx))
}

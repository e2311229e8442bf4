package teller

import (
	"context"

	"github.com/notorious-go/sync/ledger"
)

// A Receipt reports the result of an operation submitted to a Desk.
type Receipt struct {
	amount int64
	done   chan struct{}
	// err is written once, before done is closed.
	err error
}

func newReceipt(amount int64) *Receipt {
	return &Receipt{amount: amount, done: make(chan struct{})}
}

func (r *Receipt) settle(err error) {
	r.err = err
	close(r.done)
}

// Amount returns the amount the operation was submitted with.
func (r *Receipt) Amount() int64 {
	return r.amount
}

// Done returns a channel that is closed once the operation has been applied.
func (r *Receipt) Done() <-chan struct{} {
	return r.done
}

// Err blocks until the operation has been applied and returns its error.
func (r *Receipt) Err() error {
	<-r.done
	return r.err
}

// Wait is like Err, but gives up when ctx is done, returning the context's
// error. The operation itself is not affected.
func (r *Receipt) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outcome blocks until the operation has been applied and classifies its
// error.
func (r *Receipt) Outcome() ledger.Outcome {
	return ledger.OutcomeOf(r.Err())
}

package teller

import (
	"context"
	"fmt"
	"sync"

	"github.com/notorious-go/sync/ledger"
)

// A Desk applies ledger operations submitted by clients identified by keys of
// type K. Operations of the same client are applied in submission order;
// operations of different clients run concurrently.
//
// A Desk must be created with NewDesk. Submitting operations is safe for
// concurrent use, but the order among concurrent submissions of the same client
// is whichever order they reach the Desk in.
type Desk[K comparable] struct {
	ledger *ledger.Ledger

	wg    sync.WaitGroup
	slots slots
	lines lines[K]
}

// NewDesk returns a Desk serving l, with no limit on the number of operations
// in flight.
func NewDesk[K comparable](l *ledger.Ledger) *Desk[K] {
	return &Desk[K]{ledger: l}
}

// Ledger returns the ledger served by the Desk.
func (d *Desk[K]) Ledger() *ledger.Ledger {
	return d.ledger
}

// Deposit queues a deposit of amount for client.
func (d *Desk[K]) Deposit(client K, amount int64) *Receipt {
	return d.submit(client, amount, func() error {
		return d.ledger.Deposit(amount)
	})
}

// Withdraw queues a withdrawal of amount for client with the semantics of
// ledger.Ledger.WithdrawContext. The context bounds the wait for funds only;
// the wait for the client's earlier operations is not interruptible.
func (d *Desk[K]) Withdraw(ctx context.Context, client K, amount int64) *Receipt {
	return d.submit(client, amount, func() error {
		return d.ledger.WithdrawContext(ctx, amount)
	})
}

// WithdrawCovered queues a withdrawal of amount for client with the semantics
// of ledger.Ledger.WithdrawCovered.
func (d *Desk[K]) WithdrawCovered(ctx context.Context, client K, amount int64) *Receipt {
	return d.submit(client, amount, func() error {
		return d.ledger.WithdrawCovered(ctx, amount)
	})
}

// submit runs apply in a new goroutine once the client's earlier operations
// are done. It blocks while the Desk is at its limit.
//
// The slot is taken before the turn is queued. Every queued turn then holds a
// slot, so the oldest turn of a client can always run and free its slot.
func (d *Desk[K]) submit(client K, amount int64, apply func() error) *Receipt {
	d.slots.acquire()
	t := d.lines.enqueue(client)
	return d.start(t, amount, apply)
}

// start runs apply for the turn t, which already holds a slot.
func (d *Desk[K]) start(t *turn[K], amount int64, apply func() error) *Receipt {
	r := newReceipt(amount)
	d.wg.Add(1)
	go func() {
		defer d.done(t)
		<-t.ready
		r.settle(apply())
	}()
	return r
}

func (d *Desk[K]) done(t *turn[K]) {
	t.finish()
	d.slots.release()
	d.wg.Done()
}

// Wait blocks until every submitted operation has been applied.
func (d *Desk[K]) Wait() {
	d.wg.Wait()
}

// Clients returns the number of clients with operations still queued or
// running.
func (d *Desk[K]) Clients() int {
	return d.lines.len()
}

// SetLimit limits the number of operations in flight to at most n. A negative
// value indicates no limit. A zero value will block any further submission.
//
// The limit must not be modified while any operations are in flight.
func (d *Desk[K]) SetLimit(n int) {
	if len(d.slots) != 0 {
		panic(fmt.Errorf("teller: modify limit while %v operations are still in flight", len(d.slots)))
	}
	d.slots = newSlots(n)
}

// TryDeposit is like Deposit, but returns false instead of blocking when the
// Desk is at its limit.
func (d *Desk[K]) TryDeposit(client K, amount int64) (*Receipt, bool) {
	if !d.slots.tryAcquire() {
		return nil, false
	}
	t := d.lines.enqueue(client)
	return d.start(t, amount, func() error {
		return d.ledger.Deposit(amount)
	}), true
}

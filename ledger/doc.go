// Package ledger provides a synchronized balance for producer/consumer
// coordination: producers Deposit amounts, consumers Withdraw them, and a
// consumer arriving at an empty ledger parks until a producer wakes it.
//
// # Ledger
//
// A [Ledger] owns a signed balance, a mutex that guards it, and condition
// variables on which withdrawing goroutines wait. Every read and write of the
// balance happens with the mutex held; a parked goroutine holds no lock.
//
//	l := ledger.New(0)
//	go func() {
//	    // Parks until the balance becomes non-zero.
//	    err := l.Withdraw(500)
//	    ...
//	}()
//	_ = l.Deposit(500) // wakes the withdrawer
//
// # Withdrawal Semantics
//
// Withdraw waits only until the balance is non-zero, not until it covers the
// requested amount. Once non-zero, the withdrawal either completes or is
// rejected with [ErrInsufficientFunds] immediately:
//
//	Requesting -> Waiting (balance == 0) -> Reacquired -> Completed | Rejected
//
// This means a stream of small deposits may produce a series of rejections for
// a large withdrawal. Callers who want to wait for coverage instead use
// [Ledger.WithdrawCovered], which never rejects and only returns once the
// balance is sufficient (or its context ends).
//
// [Ledger.WithdrawContext] and [Ledger.WithdrawTimeout] bound the waiting
// state. An expired deadline yields an error matching [ErrTimeout]; the ledger
// is left unchanged.
//
// # Wake-ups
//
// Deposit wakes one goroutine waiting for a non-zero balance. A withdrawer
// leaving the ledger with a balance still above zero passes the wake-up on to
// the next parked withdrawer, so one large deposit drains the whole queue of
// waiters it can serve. Waiters always re-check the balance after waking, which
// makes spurious or stale wake-ups harmless.
//
// There is no FIFO guarantee between waiters. A woken goroutine competes for
// the mutex with every other goroutine, including newly arriving ones.
//
// # Errors
//
// All failures are returned to the caller and leave the balance untouched:
//
//   - [ErrInvalidAmount] for non-positive amounts.
//   - [ErrInsufficientFunds] when a non-zero balance is too low.
//   - [ErrOverflow] when a deposit would overflow the balance.
//   - [ErrTimeout] when a bounded wait expires.
//
// [OutcomeOf] classifies any of these errors into an [Outcome].
//
// # Observability
//
// Ledgers log through a [logrus.FieldLogger] and export Prometheus metrics
// when given a registerer; see [WithLogger] and [WithRegisterer].
package ledger

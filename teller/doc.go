// Package teller serves ledger operations on behalf of many clients at once.
//
// A [Desk] accepts deposits and withdrawals tagged with a client key. Every
// operation runs in its own goroutine, but operations of the same client are
// applied strictly in the order they were submitted, while operations of
// different clients proceed concurrently. A client whose withdrawal is parked
// on an empty ledger therefore holds back only its own later operations.
//
//	desk := teller.NewDesk[string](l)
//	desk.Withdraw(ctx, "alice", 100) // parks until funds arrive
//	desk.Deposit("alice", 50)        // runs after alice's withdrawal
//	desk.Deposit("bob", 100)         // runs right away and releases alice
//	desk.Wait()
//
// Each submission returns a [Receipt] that reports the operation's error once
// it has been applied.
//
// # Concurrency Limits
//
// SetLimit bounds the number of operations in flight. Submitting blocks the
// caller while the Desk is at its limit. Because parked withdrawals occupy
// slots, a limit must leave room for the deposits that release them; a Desk
// whose every slot is held by a parked withdrawal cannot accept the deposit
// that would free it.
package teller

package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notorious-go/sync/ledger"
)

// This example demonstrates the classic producer/consumer hand-off: a
// withdrawal arrives at an empty ledger, parks, and is released by a deposit
// made from another goroutine.
func Example() {
	l := ledger.New(0)

	done := make(chan error)
	go func() {
		// Parks until the balance becomes non-zero.
		done <- l.Withdraw(500)
	}()

	// Wait until the withdrawal is parked, only to make the output deterministic.
	for l.Waiting() == 0 {
		time.Sleep(time.Millisecond)
	}
	fmt.Println("waiting withdrawals:", l.Waiting())

	if err := l.Deposit(500); err != nil {
		fmt.Println("deposit failed:", err)
	}
	fmt.Println("withdrawal error:", <-done)
	fmt.Println("balance:", l.Balance())

	// Output:
	// waiting withdrawals: 1
	// withdrawal error: <nil>
	// balance: 0
}

// This example demonstrates that Withdraw only waits for a non-zero balance.
// A balance that is too low is rejected immediately, and the caller decides
// whether to retry.
func ExampleLedger_Withdraw_insufficientFunds() {
	l := ledger.New(50)

	err := l.Withdraw(100)
	fmt.Println(errors.Is(err, ledger.ErrInsufficientFunds))
	fmt.Println(ledger.OutcomeOf(err))
	fmt.Println("balance:", l.Balance())

	// Output:
	// true
	// rejected
	// balance: 50
}

// This example demonstrates bounding the wait of a withdrawal.
func ExampleLedger_WithdrawTimeout() {
	l := ledger.New(0)

	err := l.WithdrawTimeout(10, 10*time.Millisecond)
	fmt.Println(errors.Is(err, ledger.ErrTimeout))
	fmt.Println(ledger.OutcomeOf(err))

	// Output:
	// true
	// timed_out
}

// This example demonstrates the stricter withdrawal, which waits until the
// balance covers the whole amount instead of rejecting it.
func ExampleLedger_WithdrawCovered() {
	l := ledger.New(0)

	done := make(chan error)
	go func() {
		done <- l.WithdrawCovered(context.Background(), 100)
	}()

	for _, amount := range []int64{40, 40, 20} {
		// Let the withdrawal park between deposits.
		for l.Waiting() == 0 {
			time.Sleep(time.Millisecond)
		}
		_ = l.Deposit(amount)
	}
	fmt.Println("withdrawal error:", <-done)
	fmt.Println("balance:", l.Balance())

	// Output:
	// withdrawal error: <nil>
	// balance: 0
}

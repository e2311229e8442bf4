package teller_test

import (
	"context"
	"fmt"

	"github.com/notorious-go/sync/ledger"
	"github.com/notorious-go/sync/teller"
)

// This example demonstrates per-client ordering. Each client's operations are
// applied in the order they were submitted, so a client may safely submit a
// withdrawal right after the deposit that funds it.
func ExampleDesk() {
	l := ledger.New(0)
	desk := teller.NewDesk[string](l)

	var receipts []*teller.Receipt
	for _, client := range []string{"alice", "bob", "carol"} {
		receipts = append(receipts,
			desk.Deposit(client, 100),
			desk.Withdraw(context.Background(), client, 100),
		)
	}
	desk.Wait()

	for _, r := range receipts {
		fmt.Println(r.Amount(), r.Outcome())
	}
	fmt.Println("balance:", l.Balance())

	// Output:
	// 100 completed
	// 100 completed
	// 100 completed
	// 100 completed
	// 100 completed
	// 100 completed
	// balance: 0
}

// Package cond provides a condition variable whose waits can be interrupted.
//
// # Why This Package Exists
//
// The standard library's [sync.Cond] parks a goroutine until Signal or
// Broadcast is called, and nothing else can wake it. That is fine for
// unbounded waits, but any caller that needs a deadline or a cancellation
// signal has nowhere to plug it in. A Cond from this package accepts an
// interrupt channel (typically ctx.Done()) and returns early when it closes,
// still reacquiring the associated lock before returning.
//
// # Usage
//
// The usage pattern is the same as for sync.Cond. The predicate is always
// re-checked in a loop, because a wake-up says nothing about the state:
//
//	mu.Lock()
//	defer mu.Unlock()
//	for !predicate() {
//	    if !c.Wait(ctx.Done()) {
//	        return ctx.Err()
//	    }
//	}
//	// ... predicate holds and mu is held ...
//
// # Semantics
//
//   - Wait registers the caller as a waiter before releasing the lock. A Signal
//     issued after the caller observed a false predicate can therefore never be
//     missed, even when Signal is called without holding the lock.
//   - Signal wakes the longest-waiting goroutine. This is not a fairness
//     guarantee for the protected state: the woken goroutine still competes
//     for the lock with every other goroutine.
//   - A waiter that is interrupted at the same time as it is signalled forwards
//     the signal to the next waiter, so interrupts never swallow wake-ups.
//
// The zero Cond is not usable; create one with [New].
package cond

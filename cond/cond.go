package cond

import (
	"container/list"
	"fmt"
	"sync"
)

// Cond is a condition variable associated with a [sync.Locker]. Waiters are
// parked on private channels, which is what makes Wait interruptible.
type Cond struct {
	// L is held while observing or changing the condition.
	L sync.Locker

	// mu protects waiters. It is never held while blocking.
	mu sync.Mutex
	// waiters holds one *waiter per parked goroutine, oldest first. A waiter is
	// removed from the list by whoever wakes it.
	waiters list.List
}

// waiter is a parked goroutine. Both fields are guarded by Cond.mu, except that
// wake is buffered and received from without the lock.
type waiter struct {
	wake chan struct{}
	// listed is true while the waiter is in Cond.waiters.
	listed bool
}

// New returns a new Cond associated with l.
func New(l sync.Locker) *Cond {
	if l == nil {
		panic(fmt.Errorf("cond: nil Locker"))
	}
	return &Cond{L: l}
}

// Wait atomically unlocks c.L and suspends the calling goroutine until it is
// woken by Signal or Broadcast, or until interrupt is closed. In both cases
// c.L is locked again before Wait returns.
//
// Wait reports whether the goroutine was woken by a signal. A nil interrupt
// channel never fires, making Wait behave like [sync.Cond.Wait].
//
// The caller must hold c.L when calling Wait.
func (c *Cond) Wait(interrupt <-chan struct{}) (signalled bool) {
	w := &waiter{wake: make(chan struct{}, 1), listed: true}

	c.mu.Lock()
	e := c.waiters.PushBack(w)
	c.mu.Unlock()

	c.L.Unlock()
	defer c.L.Lock()

	select {
	case <-w.wake:
		return true
	case <-interrupt:
	}

	c.mu.Lock()
	woken := !w.listed
	if !woken {
		c.waiters.Remove(e)
		w.listed = false
	}
	c.mu.Unlock()
	if woken {
		// A signal raced the interrupt and was addressed to us. Hand it over to
		// the next waiter instead of dropping it.
		<-w.wake
		c.Signal()
	}
	return false
}

// Signal wakes one goroutine waiting on c, if there is any. It is allowed but
// not required for the caller to hold c.L.
func (c *Cond) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.waiters.Front(); e != nil {
		c.wake(e)
	}
}

// Broadcast wakes all goroutines waiting on c. It is allowed but not required
// for the caller to hold c.L.
func (c *Cond) Broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for e := c.waiters.Front(); e != nil; e = c.waiters.Front() {
		c.wake(e)
	}
}

// Len returns the number of goroutines currently parked in Wait.
func (c *Cond) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiters.Len()
}

// String returns a human-readable representation of the condition's state.
func (c *Cond) String() string {
	return fmt.Sprintf("Cond(waiters=%v)", c.Len())
}

// wake removes e from the waiters and delivers its wake-up. Must be called
// with c.mu held.
func (c *Cond) wake(e *list.Element) {
	w := c.waiters.Remove(e).(*waiter)
	w.listed = false
	// Buffered with capacity one and sent to exactly once, so this never blocks.
	w.wake <- struct{}{}
}

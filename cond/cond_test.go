package cond_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/sync/cond"
)

func TestNewNilLocker(t *testing.T) {
	assert.Panics(t, func() { cond.New(nil) })
}

func TestSignalWakesOneWaiter(t *testing.T) {
	var mu sync.Mutex
	c := cond.New(&mu)

	var (
		ready bool
		woken sync.WaitGroup
	)
	woken.Add(1)
	go func() {
		defer woken.Done()
		mu.Lock()
		defer mu.Unlock()
		for !ready {
			c.Wait(nil)
		}
	}()

	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)

	mu.Lock()
	ready = true
	mu.Unlock()
	c.Signal()

	woken.Wait()
	assert.Equal(t, 0, c.Len())
}

func TestSignalWithoutWaitersIsNoop(t *testing.T) {
	var mu sync.Mutex
	c := cond.New(&mu)
	c.Signal()
	c.Broadcast()
	assert.Equal(t, 0, c.Len())
}

func TestBroadcastWakesAllWaiters(t *testing.T) {
	const n = 8

	var mu sync.Mutex
	c := cond.New(&mu)
	ready := false

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			for !ready {
				c.Wait(nil)
			}
		}()
	}
	require.Eventually(t, func() bool { return c.Len() == n }, time.Second, time.Millisecond)

	mu.Lock()
	ready = true
	mu.Unlock()
	c.Broadcast()

	wg.Wait()
	assert.Equal(t, 0, c.Len())
}

func TestWaitReacquiresLock(t *testing.T) {
	var mu sync.Mutex
	c := cond.New(&mu)

	done := make(chan struct{})
	go func() {
		defer close(done)
		mu.Lock()
		c.Wait(nil)
		// The lock must be held again; TryLock from this goroutine must fail.
		assert.False(t, mu.TryLock())
		mu.Unlock()
	}()

	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)
	// While parked, the waiter must not hold the lock.
	require.Eventually(t, func() bool {
		if !mu.TryLock() {
			return false
		}
		mu.Unlock()
		return true
	}, time.Second, time.Millisecond)

	c.Signal()
	<-done
}

func TestWaitInterrupted(t *testing.T) {
	var mu sync.Mutex
	c := cond.New(&mu)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	mu.Lock()
	signalled := c.Wait(ctx.Done())
	assert.False(t, signalled)
	assert.False(t, mu.TryLock(), "lock must be held after an interrupted wait")
	mu.Unlock()

	assert.Equal(t, 0, c.Len(), "an interrupted waiter must deregister itself")
}

// An interrupted waiter must not swallow a signal that was addressed to it.
// Whatever the interleaving, the second waiter has to be released by the
// single Signal below.
func TestInterruptForwardsSignal(t *testing.T) {
	for range 100 {
		var mu sync.Mutex
		c := cond.New(&mu)

		interrupt := make(chan struct{})
		first := make(chan bool)
		go func() {
			mu.Lock()
			defer mu.Unlock()
			first <- c.Wait(interrupt)
		}()
		require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)

		second := make(chan bool)
		go func() {
			mu.Lock()
			defer mu.Unlock()
			second <- c.Wait(nil)
		}()
		require.Eventually(t, func() bool { return c.Len() == 2 }, time.Second, time.Millisecond)

		// Race the interrupt of the first waiter against a single signal.
		close(interrupt)
		c.Signal()

		if <-first {
			// The first waiter consumed the signal before noticing the interrupt, so
			// the second one needs a wake-up of its own. Otherwise the signal must
			// have reached the second waiter, either directly or forwarded.
			c.Signal()
		}
		select {
		case ok := <-second:
			assert.True(t, ok)
		case <-time.After(time.Second):
			t.Fatal("second waiter was never woken")
		}
	}
}

func TestString(t *testing.T) {
	var mu sync.Mutex
	c := cond.New(&mu)
	assert.Equal(t, "Cond(waiters=0)", c.String())
}

// Interrupting a waiter in the middle of the line removes exactly that waiter
// and leaves the others in order for later signals.
func TestInterruptMiddleWaiter(t *testing.T) {
	var mu sync.Mutex
	c := cond.New(&mu)

	interrupts := make([]chan struct{}, 3)
	results := make([]chan bool, 3)
	for i := range interrupts {
		interrupts[i] = make(chan struct{})
		results[i] = make(chan bool, 1)
		go func() {
			mu.Lock()
			defer mu.Unlock()
			results[i] <- c.Wait(interrupts[i])
		}()
		require.Eventually(t, func() bool { return c.Len() == i+1 }, time.Second, time.Millisecond)
	}

	close(interrupts[1])
	assert.False(t, <-results[1])
	require.Eventually(t, func() bool { return c.Len() == 2 }, time.Second, time.Millisecond)

	c.Signal()
	assert.True(t, <-results[0])
	c.Signal()
	assert.True(t, <-results[2])
	assert.Equal(t, 0, c.Len())
}

package teller

import "fmt"

// slots counts operations in flight as tokens in a buffered channel, wherein
// the buffer size is the maximum number of concurrent operations.
//
// The nil slots has unlimited capacity and never blocks, unlike a nil channel.
type slots chan struct{}

// newSlots creates slots with the specified limit. A negative limit means no
// limit at all.
func newSlots(limit int) slots {
	if limit < 0 {
		return nil
	}
	return make(slots, limit)
}

func (s slots) String() string {
	if s == nil {
		return "slots(unlimited)"
	}
	return fmt.Sprintf("slots(%v/%v)", len(s), cap(s))
}

// acquire blocks until a slot is free and takes it.
func (s slots) acquire() {
	if s == nil {
		return
	}
	s <- struct{}{}
}

// tryAcquire takes a free slot without blocking and reports whether it did.
// It may succeed while other goroutines are blocked in acquire.
func (s slots) tryAcquire() bool {
	if s == nil {
		return true
	}
	select {
	case s <- struct{}{}:
		return true
	default:
		return false
	}
}

// release frees a slot taken by acquire or a successful tryAcquire.
func (s slots) release() {
	if s == nil {
		return
	}
	<-s
}

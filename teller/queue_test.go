package teller

import (
	"testing"
)

func TestLinesOrderPerClient(t *testing.T) {
	var l lines[string]

	a1 := l.enqueue("alice")
	a2 := l.enqueue("alice")
	b1 := l.enqueue("bob")

	if !closed(a1.ready) || !closed(b1.ready) {
		t.Fatal("first turn of each client must be ready at once")
	}
	if closed(a2.ready) {
		t.Fatal("second turn must wait for the first")
	}
	if got := l.len(); got != 2 {
		t.Fatalf("expected 2 lines, got %v", got)
	}

	a1.finish()
	if !closed(a2.ready) {
		t.Fatal("second turn must be ready once the first finished")
	}
	// Finishing twice is harmless.
	a1.finish()

	a2.finish()
	b1.finish()
	if got := l.len(); got != 0 {
		t.Fatalf("expected finished lines to be forgotten, %v remain", got)
	}
}

func TestSlots(t *testing.T) {
	s := newSlots(1)
	if got := s.String(); got != "slots(0/1)" {
		t.Errorf("unexpected %q", got)
	}
	if !s.tryAcquire() {
		t.Fatal("expected a free slot")
	}
	if s.tryAcquire() {
		t.Fatal("expected no free slot")
	}
	s.release()

	var unlimited slots = newSlots(-1)
	if unlimited != nil {
		t.Fatal("negative limits must produce unlimited slots")
	}
	unlimited.acquire()
	unlimited.release()
	if got := unlimited.String(); got != "slots(unlimited)" {
		t.Errorf("unexpected %q", got)
	}
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

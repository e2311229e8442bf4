package teller

import "sync"

// turn is a client's place in line. It may start once ready is closed, and it
// closes done when it finishes, which admits the client's next turn.
type turn[K comparable] struct {
	ready <-chan struct{}
	done  chan struct{}
	// Closing done twice would panic.
	doneOnce sync.Once

	client K
	line   *lines[K]
}

// finish marks the turn as over and drops the client's line if nobody queued
// behind it.
func (t *turn[K]) finish() {
	t.doneOnce.Do(func() {
		close(t.done)
		t.line.forget(t.client, t.done)
	})
}

// lines keeps one line per client. The tail of a line is the done channel of
// the most recently queued turn.
type lines[K comparable] struct {
	// Makes the zero-value lines ready to use and concurrent-safe.
	initOnce sync.Once
	// The map is handed around through a channel of capacity one, which makes
	// receiving it the equivalent of locking it.
	tails chan map[K]chan struct{}
}

func (l *lines[K]) acquire() (tails map[K]chan struct{}, release func()) {
	l.initOnce.Do(func() {
		l.tails = make(chan map[K]chan struct{}, 1)
		l.tails <- make(map[K]chan struct{})
	})
	tails = <-l.tails
	return tails, func() { l.tails <- tails }
}

// enqueue returns a turn that becomes ready once every turn previously queued
// for the same client has finished. The first turn of a client is ready at once.
func (l *lines[K]) enqueue(client K) *turn[K] {
	tails, release := l.acquire()
	defer release()

	ready, ok := tails[client]
	if !ok {
		closed := make(chan struct{})
		close(closed)
		ready = closed
	}
	done := make(chan struct{})
	tails[client] = done
	return &turn[K]{
		ready:  ready,
		done:   done,
		client: client,
		line:   l,
	}
}

// forget drops the client's line if done is still its tail.
func (l *lines[K]) forget(client K, done chan struct{}) {
	tails, release := l.acquire()
	defer release()

	if tail, ok := tails[client]; ok && tail == done {
		delete(tails, client)
	}
}

// len returns the number of clients with turns in line.
func (l *lines[K]) len() int {
	tails, release := l.acquire()
	defer release()
	return len(tails)
}

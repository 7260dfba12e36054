package refresh

import "sync"

// This file implements the queued refresh policy.

/*
Background runs refresh tasks on a single worker goroutine behind a bounded
queue.

The queue absorbs bursts of refresh triggers from hot keys. When it is full
the trigger is refused outright. Blocking the read path to guarantee a
refresh would invert the library's priorities; a refused refresh simply
happens on a later read instead.
*/
type Background struct {

	// mu guards closed so a Trigger racing Close refuses cleanly instead of
	// sending on a closed channel.
	mu     sync.Mutex
	closed bool

	// ch holds accepted tasks until the worker picks them up.
	ch chan func()

	// wg waits for the worker during Close so accepted refreshes are not
	// lost on shutdown.
	wg sync.WaitGroup
}

// NewBackground creates a Background policy with the given queue capacity
// and starts its worker. Capacities below 1 are raised to 1.
func NewBackground(buffer int) *Background {
	if buffer < 1 {
		buffer = 1
	}
	b := &Background{
		ch: make(chan func(), buffer),
	}

	b.wg.Add(1)
	go b.worker()

	return b
}

// Trigger enqueues the task if the policy is open and has room, and refuses
// it otherwise.
func (b *Background) Trigger(task func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	select {
	case b.ch <- task:
		return true
	default:
		return false
	}
}

// worker drains the queue until Close closes it.
func (b *Background) worker() {
	defer b.wg.Done()

	for task := range b.ch {
		task()
	}
}

// Close stops intake, then waits until every accepted task has run. Safe to
// call more than once.
func (b *Background) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	b.mu.Unlock()

	b.wg.Wait()
}

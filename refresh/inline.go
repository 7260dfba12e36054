package refresh

// This file implements the synchronous refresh policy.

/*
Inline runs each task on the triggering goroutine before Trigger returns.

The caller that happened to be served a throttled read pays for the refresh
with its own latency, so Inline is not what a production group wants on a
hot path. It exists for tests and small programs that would rather have
deterministic refresh timing than background concurrency.
*/
type Inline struct{}

// Trigger runs the task immediately and always accepts it.
func (Inline) Trigger(task func()) bool {
	task()
	return true
}

// Close is a no-op; Inline has no worker and no queue.
func (Inline) Close() {}

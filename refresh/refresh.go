package refresh

/*
This package executes refresh-ahead work.

When a throttled read is served and the entry has aged past the call's
RefreshAfter, the group wants the key re-produced in the background so the
next reads are both cheap and reasonably fresh. How that work is executed is
a policy: queued to a worker, run inline, or anything a caller plugs in.

Whatever the policy does, it must never block the read path. Serving a
cached value is the fast path of the whole library; a refresh that cannot be
accepted right now is dropped, not waited for.
*/

// Policy is the contract for refresh-ahead execution.
type Policy interface {

	// Trigger hands one task to the policy. It returns immediately; accepted
	// reports whether the task will eventually run. A policy under pressure
	// refuses rather than blocks, and the caller releases its claim so a
	// later read can try again.
	Trigger(task func()) (accepted bool)

	// Close stops intake and waits for accepted tasks to finish. Called by
	// the group on shutdown.
	Close()
}

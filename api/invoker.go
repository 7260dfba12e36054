package api

import (
	"context"

	"github.com/cobaltbay/callcache/types"
)

/*
Invoker is the PUBLIC contract of a call-cache group. It guarantees observable
behavior without exposing internals; sharding, flight registration, storage
layout, and refresh scheduling all stay behind this interface.
*/
type Invoker interface {

	/*
		Do runs the producer for key with deduplication and throttling.

		BEHAVIOR, in order:
		-------------------
		1. If the call's throttle interval is positive, a previous success is
		   recorded for the key, and it is younger than the interval:
		   - Return the recorded value immediately (no invocation, no join)

		2. If a producer run for the key is in flight:
		   - Block until it settles and return its outcome
		   - Every joined caller receives the same value or the same error

		3. Otherwise:
		   - Invoke the producer exactly once on behalf of all callers that
		     join while it runs
		   - On success, record value and resolution time for later calls
		   - On failure, record nothing; the error is returned, not cached
		   - Either way, release the in-flight registration so the next call
		     can run the producer again
	*/
	Do(ctx context.Context, key string, producer types.Producer, opts ...types.CallOption) (any, error)

	/*
		Clear removes every recorded result and detaches every in-flight run.

		Detaching means: callers already waiting still receive the outcome,
		but it is not recorded, and callers arriving afterwards start a fresh
		run instead of joining. Returns the number of entries removed.

		USE CASES:
		----------
		- Logout or session switch
		- Test isolation
	*/
	Clear() int

	/*
		ClearPrefix is Clear limited to keys that start with prefix.

		Keys are colon-namespaced by convention ("profile:42", "vault:42"),
		so one prefix invalidates a whole family of related calls while
		everything else stays cached.
	*/
	ClearPrefix(prefix string) int

	/*
		Forget invalidates a single key: recorded result removed, running
		flight detached. Forgetting an unknown key is safe and does nothing.
	*/
	Forget(key string)

	// Len returns the number of recorded results currently held.
	Len() int

	/*
		Close shuts the group down: the stale-entry sweeper stops, the
		refresh policy drains and stops, and the group context is cancelled.
		Call it once, after the group's callers have stopped.
	*/
	Close()
}

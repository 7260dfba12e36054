package types

import "context"

/*
Producer is the caller-supplied asynchronous function whose result is being
deduplicated and throttled.

The producer owns all I/O: the group never opens connections, retries, or
enforces deadlines on its behalf.

	1. A caller asks the group for key K
	2. No fresh result exists and nothing is in flight
	3. The group invokes the Producer exactly once
	4. Every caller waiting on K receives that run's outcome
	5. On success the result is recorded for later throttled reads

The context passed in belongs to the caller that started the run. Callers
that join an in-flight run do not extend or cancel it; if the starting
caller's context is cancelled mid-run, the producer decides what to do with
that, and whatever it returns is what every joined caller gets.
*/
type Producer func(ctx context.Context) (any, error)

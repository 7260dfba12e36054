// This file defines when a recorded result is still fresh enough to serve
// without running the producer again.

package freshness

import (
	"time"

	"github.com/cobaltbay/callcache/types"
)

/*
Strategy is the throttle rule. The group asks it on every call whether the
recorded entry may be served as-is; a "no" sends the caller on to join or
start a producer run.

The interval comes from the call, not from the group or the entry: two call
sites may poll the same key with different tolerances for staleness, and
each is judged against its own interval.
*/
type Strategy interface {

	// Fresh reports whether ent may be served for a call made at now with
	// the given throttle interval. ent is never nil.
	Fresh(ent *types.Entry, now time.Time, interval time.Duration) bool
}

/*
Interval is the default strategy: a result is fresh while the time since its
successful resolution is strictly less than the call's interval.

An interval of zero (the default for calls that pass no option) disables
throttling entirely, so every call after a settlement runs the producer
again. An entry aged exactly the interval is already stale.
*/
type Interval struct{}

func (Interval) Fresh(ent *types.Entry, now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	return ent.Age(now) < interval
}

/*
Never treats every result as stale regardless of the call's interval.

Installing it turns a group into a pure deduplicator: concurrent callers
still coalesce onto one run, but nothing is ever served from cache. Useful
as a kill switch when cached reads are suspected of masking a backend
problem.
*/
type Never struct{}

func (Never) Fresh(*types.Entry, time.Time, time.Duration) bool {
	return false
}

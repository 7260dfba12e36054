package types

import (
	"sync/atomic"
	"time"
)

/*
Entry is the recorded outcome of one successful producer run.

Entries are replaced wholesale: every success installs a fresh Entry, and a
failed run never produces one. The only field mutated in place is the
Refreshing claim flag, which marks that a background refresh for this result
is already scheduled so throttled readers do not schedule another.
*/
type Entry struct {
	// Key is the cache key this result was recorded under.
	Key string

	// Value is the producer's result, type-erased. One group may hold values
	// of different types under different keys; call sites restore typing with
	// the generic Do helper.
	Value any

	// ResolvedAt is when the producer settled successfully. Freshness and
	// sweep decisions are measured against this timestamp.
	ResolvedAt time.Time

	// Refreshing is set while a background re-invocation for this entry is
	// queued or running. It is claimed with CompareAndSwap so concurrent
	// throttled reads schedule at most one refresh.
	Refreshing atomic.Bool
}

// Age reports how long ago the entry's producer run settled.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.ResolvedAt)
}

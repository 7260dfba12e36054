package types

// This file defines how the group reports what it is doing.

/*
Metrics is the set of events a group emits. The group calls these methods
whenever the corresponding event happens; implementations decide whether to
count, export, or ignore them.
*/
type Metrics interface {

	// Invoked is called when a producer run actually starts. Coalesced and
	// throttled callers do not add to this count, which is the point of the
	// whole mechanism.
	Invoked()

	// Coalesced is called for a caller that shared one in-flight producer run
	// with at least one other caller instead of starting its own.
	Coalesced()

	// Throttled is called when a caller is served the cached value because
	// the previous success is still within the call's throttle interval.
	Throttled()

	// Failed is called when a producer run settles with an error.
	Failed()

	// Refreshed is called when a background refresh-ahead run is executed
	// (not when it is merely scheduled; dropped tasks never count).
	Refreshed()

	// Invalidated is called with the number of entries removed by a clear,
	// forget, or sweep. Clears are batch operations, so this is the one
	// method that takes a count.
	Invalidated(n int)
}

/*
NoopMetrics ignores all events.

The group normalizes a nil Metrics to NoopMetrics once at construction, so no
call site ever needs a nil check.
*/
type NoopMetrics struct{}

func (NoopMetrics) Invoked()          {}
func (NoopMetrics) Coalesced()        {}
func (NoopMetrics) Throttled()        {}
func (NoopMetrics) Failed()           {}
func (NoopMetrics) Refreshed()        {}
func (NoopMetrics) Invalidated(n int) {}

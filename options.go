package callcache

import (
	"time"

	"github.com/cobaltbay/callcache/freshness"
	"github.com/cobaltbay/callcache/refresh"
	"github.com/cobaltbay/callcache/types"
)

const (
	defaultShards       = 4
	defaultRefreshQueue = 64
)

// Option configures a Group at construction time.
type Option func(*config)

type config struct {
	shards      int
	freshness   freshness.Strategy
	refresh     refresh.Policy
	refreshSet  bool
	metrics     types.Metrics
	maxEntryAge time.Duration
	sweepEvery  time.Duration
}

func defaultConfig() config {
	return config{shards: defaultShards}
}

// WithShards sets the number of shards the key space is split across. More
// shards means less write contention between unrelated keys. Values below 1
// are coerced to 1.
func WithShards(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.shards = n
	}
}

// WithFreshness replaces the strategy that judges whether a recorded success
// is still fresh for a call's interval. freshness.Never turns the group into
// a pure deduplicator.
func WithFreshness(s freshness.Strategy) Option {
	return func(c *config) { c.freshness = s }
}

// WithRefresh replaces the executor for refresh-ahead runs. Passing nil
// disables refresh-ahead entirely; WithRefreshAfter then has no effect.
func WithRefresh(p refresh.Policy) Option {
	return func(c *config) {
		c.refresh = p
		c.refreshSet = true
	}
}

// WithMetrics attaches a metrics sink. The group never nil-checks it, so a
// nil value falls back to the no-op implementation.
func WithMetrics(m types.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

/*
WithMaxEntryAge starts a sweeper goroutine that removes entries whose last
success is older than maxAge, checking every sweep interval. By default
entries persist until invalidated; sweeping is for long-lived groups with an
unbounded key population, where dead keys would otherwise accumulate.

A non-positive maxAge leaves sweeping off. A non-positive interval defaults
to maxAge.
*/
func WithMaxEntryAge(maxAge, every time.Duration) Option {
	return func(c *config) {
		if maxAge <= 0 {
			c.maxEntryAge = 0
			return
		}
		if every <= 0 {
			every = maxAge
		}
		c.maxEntryAge = maxAge
		c.sweepEvery = every
	}
}

// WithMinInterval sets the call's throttle interval: a recorded success
// younger than d is returned without invoking the producer. Zero, the
// default, means every call past the previous settlement invokes again.
func WithMinInterval(d time.Duration) types.CallOption {
	return func(c *types.CallConfig) { c.MinInterval = d }
}

/*
WithRefreshAfter asks for refresh-ahead: when a throttled hit serves an
entry at least d old, the group also schedules one background re-invocation
so the next hits see newer data without anyone waiting for it.

Only meaningful together with WithMinInterval, on a group whose refresh
policy is not nil, and with d shorter than the throttle interval; otherwise
the entry goes stale before it crosses the refresh threshold while fresh.
*/
func WithRefreshAfter(d time.Duration) types.CallOption {
	return func(c *types.CallConfig) { c.RefreshAfter = d }
}

package engine

import (
	"time"

	"github.com/cobaltbay/callcache/freshness"
	"github.com/cobaltbay/callcache/refresh"
	"github.com/cobaltbay/callcache/types"
)

/*
Engine is the policy layer of a group. It decides behavior, not mechanics.

It decides:
- whether a recorded result is still fresh for a given call
- whether a throttled read should also schedule a refresh-ahead run
- where metric events go

It does NOT:
- store results
- select shards
- coalesce or execute producer runs
*/
type Engine struct {

	// Freshness is the throttle rule applied to every call that finds a
	// recorded entry. Never nil after New.
	Freshness freshness.Strategy

	// Refresh executes refresh-ahead tasks. May be nil, in which case
	// refresh-ahead is disabled no matter what calls ask for.
	Refresh refresh.Policy

	// Metrics receives the group's events. Never nil after New.
	Metrics types.Metrics
}

/*
New builds an Engine and normalizes the optional pieces, so the hot paths
never nil-check: a nil strategy falls back to interval freshness and nil
metrics fall back to the no-op implementation.
*/
func New(fresh freshness.Strategy, policy refresh.Policy, metrics types.Metrics) *Engine {
	if fresh == nil {
		fresh = freshness.Interval{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &Engine{
		Freshness: fresh,
		Refresh:   policy,
		Metrics:   metrics,
	}
}

// Fresh reports whether ent may be served as-is for a call made at now with
// the given throttle interval.
func (e *Engine) Fresh(ent *types.Entry, now time.Time, interval time.Duration) bool {
	return e.Freshness.Fresh(ent, now, interval)
}

/*
ShouldRefresh reports whether a throttled read served at now should also
schedule a background re-invocation. True once the entry has aged past the
call's RefreshAfter, provided a refresh policy is installed at all.

The claim flag on the entry is not consulted here; the caller owns the
claim-and-trigger handshake.
*/
func (e *Engine) ShouldRefresh(ent *types.Entry, now time.Time, cfg types.CallConfig) bool {
	if e.Refresh == nil || cfg.RefreshAfter <= 0 {
		return false
	}
	return ent.Age(now) >= cfg.RefreshAfter
}

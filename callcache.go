/*
Package callcache caches calls, not values.

Given an opaque string key and a producer function, a Group guarantees that
at most one producer run is in flight per key: callers that ask for a key
while a run is in flight block and share its outcome instead of starting
their own. On top of that, a per-call minimum interval can suppress
re-invocation entirely while a previous success is recent enough.

The intended workload is polling: many logical callers repeatedly fetching
the same remote resource (a profile, a balance, a loan book) where duplicate
or rapid-fire backend calls are pure waste.

	g := callcache.New()
	defer g.Close()

	profile, err := callcache.Do(ctx, g, "profile:"+memberID,
		func(ctx context.Context) (*Profile, error) {
			return backend.FetchProfile(ctx, memberID)
		},
		callcache.WithMinInterval(30*time.Second),
	)

State lives entirely inside the Group. Two groups are fully independent,
which is also what makes the package easy to test.
*/
package callcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cobaltbay/callcache/api"
	"github.com/cobaltbay/callcache/engine"
	"github.com/cobaltbay/callcache/refresh"
	"github.com/cobaltbay/callcache/shard"
	"github.com/cobaltbay/callcache/types"
)

// ErrValueType is returned by the generic Do when the value recorded for a
// key does not have the type the call site asked for.
var ErrValueType = errors.New("callcache: cached value type mismatch")

/*
Group is a deduplicated, throttled call cache.

A Group splits its keys across a fixed set of shards. Each shard coalesces
concurrent producer runs for its keys and holds their recorded results; the
engine decides freshness and refresh policy. Construct with New and shut
down with Close. The zero value is not usable.
*/
type Group struct {
	shards   []*shard.Shard
	selector shard.Selector
	engine   *engine.Engine

	// baseCtx is the context handed to background refresh runs. Close
	// cancels it, which is how abandoned refreshes learn to give up.
	baseCtx context.Context
	cancel  context.CancelFunc

	sweepStop context.CancelFunc
	sweepDone chan struct{}
}

var _ api.Invoker = (*Group)(nil)

// New constructs a Group. With no options: four shards, interval freshness,
// a background refresh executor, no metrics, no entry sweeping.
func New(opts ...Option) *Group {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	// The default executor owns a goroutine, so it is only built when no
	// WithRefresh option replaced it.
	if !cfg.refreshSet {
		cfg.refresh = refresh.NewBackground(defaultRefreshQueue)
	}

	shards := make([]*shard.Shard, cfg.shards)
	for i := range shards {
		shards[i] = shard.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Group{
		shards:   shards,
		selector: shard.HashSelector{},
		engine:   engine.New(cfg.freshness, cfg.refresh, cfg.metrics),
		baseCtx:  ctx,
		cancel:   cancel,
	}
	if cfg.maxEntryAge > 0 {
		g.startSweeper(cfg.maxEntryAge, cfg.sweepEvery)
	}
	return g
}

/*
Do runs the producer for key, deduplicated and throttled.

The checks happen in this order:

1. Throttle. If the call carries a positive MinInterval and the key has a
recorded success younger than it, that value is returned at once. Nothing is
invoked and nothing is joined.

2. Coalesce. If a run for the key is in flight, block until it settles and
return its outcome, value or error, exactly as the running caller sees it.

3. Invoke. Otherwise the producer runs once on behalf of every caller that
joins meanwhile. Success is recorded for later throttled calls; an error is
returned to everyone and recorded nowhere, so the next call invokes fresh.

The producer receives the ctx of the caller whose call started the run.
Joiners' contexts do not extend, shorten, or cancel the run.
*/
func (g *Group) Do(ctx context.Context, key string, producer types.Producer, opts ...types.CallOption) (any, error) {
	cfg := types.ApplyCallOptions(opts)
	sh := g.selector.Select(key, g.shards)

	if ent, ok := sh.Store.Get(key); ok && g.engine.Fresh(ent, time.Now(), cfg.MinInterval) {
		g.engine.Metrics.Throttled()
		g.maybeRefresh(sh, key, ent, cfg, producer)
		return ent.Value, nil
	}

	return g.invoke(ctx, sh, key, producer)
}

/*
Do is the generic form of Group.Do: the producer returns T and so does the
call. When a key is shared between call sites that disagree on the type, the
mismatching site gets ErrValueType instead of a value someone else cached.

A recorded nil comes back as the zero value of T with a nil error.
*/
func Do[T any](ctx context.Context, g *Group, key string, producer func(context.Context) (T, error), opts ...types.CallOption) (T, error) {
	var zero T

	v, err := g.Do(ctx, key, func(ctx context.Context) (any, error) {
		return producer(ctx)
	}, opts...)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T", ErrValueType, key, v)
	}
	return t, nil
}

/*
invoke runs the producer through the shard's singleflight slot.

The executing closure registers a flight token before calling the producer
and settles it afterwards. Settling records the result only if the token
survived, so an invalidation that raced the run wins: the callers get their
value, the cache does not.

Exactly one caller per flight executes the closure; every other caller that
lands on the same flight is a join and counts as coalesced.
*/
func (g *Group) invoke(ctx context.Context, sh *shard.Shard, key string, producer types.Producer) (any, error) {
	executed := false

	v, err, _ := sh.Do(key, func() (any, error) {
		executed = true
		tok := sh.Begin(key)
		g.engine.Metrics.Invoked()

		val, perr := producer(ctx)
		if perr != nil {
			sh.Settle(key, tok, nil)
			g.engine.Metrics.Failed()
			return nil, perr
		}

		sh.Settle(key, tok, &types.Entry{Key: key, Value: val, ResolvedAt: time.Now()})
		return val, nil
	})

	if !executed {
		g.engine.Metrics.Coalesced()
	}
	return v, err
}

/*
maybeRefresh schedules one background re-invocation for an entry that is
still fresh enough to serve but old enough to warm up again.

The entry's claim flag makes sure at most one refresh is pending per entry;
when the policy refuses the task the claim is released immediately so a
later hit can try again.
*/
func (g *Group) maybeRefresh(sh *shard.Shard, key string, ent *types.Entry, cfg types.CallConfig, producer types.Producer) {
	if !g.engine.ShouldRefresh(ent, time.Now(), cfg) {
		return
	}
	if !ent.Refreshing.CompareAndSwap(false, true) {
		return
	}

	accepted := g.engine.Refresh.Trigger(func() {
		defer ent.Refreshing.Store(false)
		g.engine.Metrics.Refreshed()
		_, _ = g.invoke(g.baseCtx, sh, key, producer)
	})
	if !accepted {
		ent.Refreshing.Store(false)
	}
}

/*
Close shuts the group down: the sweeper stops, the refresh policy drains and
stops, and the group context is cancelled so abandoned background runs can
give up. Call it once, after the group's callers have stopped.
*/
func (g *Group) Close() {
	g.stopSweeper()
	if g.engine.Refresh != nil {
		g.engine.Refresh.Close()
	}
	g.cancel()
}

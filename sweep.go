package callcache

import (
	"context"
	"time"
)

/*
The sweeper is the group's janitor. Entries normally persist until an
invalidation or a newer success replaces them, which is the right default
for a bounded key population. A group that caches per-request keys forever
would instead grow without limit; WithMaxEntryAge opts such a group into
periodic removal of entries too old to ever be served fresh again.
*/

func (g *Group) startSweeper(maxAge, every time.Duration) {
	ctx, stop := context.WithCancel(context.Background())
	g.sweepStop = stop
	g.sweepDone = make(chan struct{})

	go func() {
		defer close(g.sweepDone)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.sweep(maxAge)
			}
		}
	}()
}

/*
sweep removes entries older than maxAge and reports how many went.

It walks a lock-free snapshot per shard, so an entry may be replaced by a
fresh success between the staleness check and the delete. RemoveIf compares
identity under the shard lock before deleting, which makes that race lose
cleanly: the fresh entry stays.
*/
func (g *Group) sweep(maxAge time.Duration) int {
	now := time.Now()
	removed := 0
	for _, sh := range g.shards {
		for key, ent := range sh.Store.Snapshot() {
			if ent.Age(now) <= maxAge {
				continue
			}
			if sh.RemoveIf(key, ent) {
				removed++
			}
		}
	}
	if removed > 0 {
		g.engine.Metrics.Invalidated(removed)
	}
	return removed
}

func (g *Group) stopSweeper() {
	if g.sweepStop == nil {
		return
	}
	g.sweepStop()
	<-g.sweepDone
}

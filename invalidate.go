package callcache

/*
Invalidation drops recorded results and detaches in-flight runs.

Detaching is deliberate: callers already blocked on a run still receive its
outcome, but the result is not recorded, and callers arriving after the
invalidation start a fresh run instead of joining one that predates it. A
result never outlives the invalidation that covered its key.
*/

// Clear removes every recorded result and detaches every in-flight run.
// Returns the number of entries removed.
func (g *Group) Clear() int {
	total := 0
	for _, sh := range g.shards {
		total += sh.Clear()
	}
	g.engine.Metrics.Invalidated(total)
	return total
}

// ClearPrefix is Clear limited to keys that start with prefix. With
// colon-namespaced keys one call drops a whole family, "profile:" say,
// while everything else stays cached.
func (g *Group) ClearPrefix(prefix string) int {
	total := 0
	for _, sh := range g.shards {
		total += sh.ClearPrefix(prefix)
	}
	g.engine.Metrics.Invalidated(total)
	return total
}

// Forget invalidates a single key. Forgetting a key that holds nothing is
// safe and does nothing.
func (g *Group) Forget(key string) {
	sh := g.selector.Select(key, g.shards)
	g.engine.Metrics.Invalidated(sh.Forget(key))
}

// Len returns the number of recorded results currently held across all
// shards. In-flight runs do not count until they settle successfully.
func (g *Group) Len() int {
	total := 0
	for _, sh := range g.shards {
		total += sh.Store.Len()
	}
	return total
}

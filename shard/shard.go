package shard

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cobaltbay/callcache/types"
)

/*
A Shard is one independent slice of the key space.

Instead of one big map with one big lock, the group splits its keys across
shards. Each shard owns, for its keys:

- the copy-on-write Store of recorded results (lock-free reads)
- the singleflight group that coalesces concurrent producer runs
- the in-flight registry that lets invalidation detach running flights

The shard mutex serializes store writes and in-flight bookkeeping. Reads
never take it.
*/

/*
Flight is the registration token of one producer run.

Tokens are compared by pointer identity: a settling run records its result
only if its own token is still the one registered for the key. When a clear
or forget removed the token in the meantime, the result is discarded instead
of resurrecting a key that was just invalidated.

The struct must not be empty. Zero-sized allocations can share one address in
Go, and that would break the identity comparison.
*/
type Flight struct {
	// Started is when the producer run began, immediately before the
	// producer function was called.
	Started time.Time
}

type Shard struct {

	// Store holds the recorded results for this shard's keys.
	Store Store

	// mu serializes store writes and all in-flight bookkeeping.
	mu sync.Mutex

	// inflight maps a key to the token of its currently registered run.
	inflight map[string]*Flight

	// sf coalesces concurrent runs per key: one execution, fanned out to
	// every caller that asked while it was in flight.
	sf singleflight.Group
}

func New() *Shard {
	return &Shard{
		Store:    newCOWStore(),
		inflight: make(map[string]*Flight),
	}
}

/*
Do executes fn through the shard's singleflight slot for key.

At most one fn runs per key at a time; callers that arrive while one is
running block and receive its outcome. The third return value reports
whether the outcome was shared with other callers.
*/
func (s *Shard) Do(key string, fn func() (any, error)) (any, error, bool) {
	return s.sf.Do(key, fn)
}

// Begin registers a fresh flight token for key and returns it. Called by the
// executing closure right before it invokes the producer.
func (s *Shard) Begin(key string) *Flight {
	tok := &Flight{Started: time.Now()}
	s.mu.Lock()
	s.inflight[key] = tok
	s.mu.Unlock()
	return tok
}

/*
Settle ends the flight identified by tok. A nil ent means the run failed and
there is nothing to record.

The entry is recorded only while tok is still the registered flight for the
key. If an invalidation removed or replaced the token since Begin, the
result is dropped: the caller still gets it as a return value, but the cache
does not.
*/
func (s *Shard) Settle(key string, tok *Flight, ent *types.Entry) (recorded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[key] != tok {
		return false
	}
	delete(s.inflight, key)

	if ent == nil {
		return false
	}
	s.Store.Put(key, ent)
	return true
}

/*
Forget invalidates a single key: the recorded entry is removed and a running
flight, if any, is detached so the next caller starts a fresh run instead of
joining it. Reports the number of entries removed (0 or 1).
*/
func (s *Shard) Forget(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	if _, ok := s.Store.Get(key); ok {
		s.Store.Delete(key)
		removed = 1
	}
	s.detachLocked(key)
	return removed
}

// Clear invalidates every key on the shard and reports how many entries were
// removed.
func (s *Shard) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.Store.Reset()
	for key := range s.inflight {
		s.detachLocked(key)
	}
	return removed
}

// ClearPrefix invalidates every key with the given prefix and reports how
// many entries were removed.
func (s *Shard) ClearPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.Store.DeletePrefix(prefix)
	for key := range s.inflight {
		if strings.HasPrefix(key, prefix) {
			s.detachLocked(key)
		}
	}
	return removed
}

/*
RemoveIf deletes the entry for key only if it is still exactly ent. The
sweeper works from a lock-free snapshot, so by the time it decides an entry
is stale a producer may have replaced it; the identity check makes that race
harmless.
*/
func (s *Shard) RemoveIf(key string, ent *types.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.Store.Get(key)
	if !ok || cur != ent {
		return false
	}
	s.Store.Delete(key)
	return true
}

// detachLocked removes the key's in-flight registration and resets its
// singleflight slot. Must be called with mu held.
func (s *Shard) detachLocked(key string) {
	if _, ok := s.inflight[key]; ok {
		delete(s.inflight, key)
		s.sf.Forget(key)
	}
}

package shard

import (
	"strings"
	"sync/atomic"

	"github.com/cobaltbay/callcache/types"
)

/*
This file defines how recorded results are stored inside a shard.

The read path (the throttle check) runs on every single call, while writes
only happen when a producer settles or a key is invalidated. The store is
therefore copy-on-write:

- Readers always see an immutable snapshot and take no lock
- Writers build a new map and swap it in atomically

Writers must still be serialized against each other; the shard's mutex does
that. Only the reader side is lock-free.
*/

// Store holds the recorded entries of one shard.
type Store interface {

	// Get retrieves the recorded entry for a key, lock-free.
	Get(key string) (*types.Entry, bool)

	// Put inserts or replaces the entry for a key.
	Put(key string, ent *types.Entry)

	// Delete removes a single key.
	Delete(key string)

	// DeletePrefix removes every key with the given prefix in one rebuild
	// pass and reports how many were removed.
	DeletePrefix(prefix string) int

	// Reset drops every entry and reports how many there were.
	Reset() int

	// Len returns the number of recorded entries.
	Len() int

	// Snapshot returns the current entry map. The map is immutable; callers
	// iterate it but never mutate it.
	Snapshot() map[string]*types.Entry
}

// cowStore is the copy-on-write Store implementation.
type cowStore struct {
	// data holds a map[string]*types.Entry. Readers load it atomically;
	// writers replace it wholesale.
	data atomic.Value

	// size mirrors len of the current map so Len never walks it.
	size atomic.Int64
}

func newCOWStore() *cowStore {
	s := &cowStore{}
	s.data.Store(make(map[string]*types.Entry))
	return s
}

func (s *cowStore) Get(key string) (*types.Entry, bool) {
	m := s.data.Load().(map[string]*types.Entry)
	ent, ok := m[key]
	return ent, ok
}

/*
Put installs an entry with the usual copy-on-write steps: load the current
map, copy it into a new one with the entry added, swap atomically, update the
size. Readers racing with the swap see either the old or the new snapshot,
never a half-written map.
*/
func (s *cowStore) Put(key string, ent *types.Entry) {
	old := s.data.Load().(map[string]*types.Entry)

	n := make(map[string]*types.Entry, len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[key] = ent

	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

func (s *cowStore) Delete(key string) {
	old := s.data.Load().(map[string]*types.Entry)
	if _, ok := old[key]; !ok {
		return
	}

	n := make(map[string]*types.Entry, len(old))
	for k, v := range old {
		if k != key {
			n[k] = v
		}
	}

	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

/*
DeletePrefix rebuilds the map once, skipping every key with the prefix.
Invalidating a whole namespace ("profile:") this way costs one pass instead
of one full copy per removed key.
*/
func (s *cowStore) DeletePrefix(prefix string) int {
	old := s.data.Load().(map[string]*types.Entry)

	n := make(map[string]*types.Entry, len(old))
	removed := 0
	for k, v := range old {
		if strings.HasPrefix(k, prefix) {
			removed++
			continue
		}
		n[k] = v
	}
	if removed == 0 {
		return 0
	}

	s.data.Store(n)
	s.size.Store(int64(len(n)))
	return removed
}

func (s *cowStore) Reset() int {
	old := s.data.Load().(map[string]*types.Entry)
	s.data.Store(make(map[string]*types.Entry))
	s.size.Store(0)
	return len(old)
}

func (s *cowStore) Len() int {
	return int(s.size.Load())
}

func (s *cowStore) Snapshot() map[string]*types.Entry {
	return s.data.Load().(map[string]*types.Entry)
}

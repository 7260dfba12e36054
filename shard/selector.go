package shard

import "github.com/cespare/xxhash/v2"

/*
This file decides which shard owns a cache key.

The mapping must be stable: a key's throttle state, in-flight registration,
and recorded result all live on one shard, so the same key must always land
on the same shard for the lifetime of the group.
*/

// Selector maps a key to one of the group's shards.
type Selector interface {
	Select(key string, shards []*Shard) *Shard
}

/*
HashSelector assigns keys by hashing them with xxhash and reducing modulo the
shard count. xxhash is fast on short string keys and spreads colon-namespaced
keys ("profile:42", "vault:42") well enough that no shard becomes a hot spot.
*/
type HashSelector struct{}

func (HashSelector) Select(key string, shards []*Shard) *Shard {
	idx := xxhash.Sum64String(key) % uint64(len(shards))
	return shards[idx]
}

package keylock

import (
	"hash/fnv"
	"sync"
)

// KeyLock provides mutual exclusion scoped to a string key. Keys are hashed
// onto a fixed set of shards, so two distinct keys may share a lock but a
// single key always maps to the same one.
type KeyLock struct {
	shards []sync.Mutex
}

func New(shardCount int) *KeyLock {
	if shardCount <= 0 {
		shardCount = 64
	}
	return &KeyLock{shards: make([]sync.Mutex, shardCount)}
}

func (k *KeyLock) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &k.shards[int(h.Sum32())%len(k.shards)]
}

func (k *KeyLock) Lock(key string) {
	k.shard(key).Lock()
}

func (k *KeyLock) Unlock(key string) {
	k.shard(key).Unlock()
}

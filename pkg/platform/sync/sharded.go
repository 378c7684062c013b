package sync

import (
	"sync"
)

const shardCount = 32

// Sharded is a concurrency-safe string-keyed map using sharded locking.
// Instead of a single global lock, operations are distributed across N shards
// based on a hash of the key, reducing contention under concurrent load.
type Sharded[V any] struct {
	shards [shardCount]shard[V]
}

type shard[V any] struct {
	mu     sync.Mutex
	values map[string]V
}

// NewSharded creates a new Sharded map with 32 shards.
func NewSharded[V any]() *Sharded[V] {
	return &Sharded[V]{}
}

// GetOrCreate returns the value for key, creating it with newValue when absent.
// The create callback runs while the key's shard is locked, so at most one
// value is ever created per key.
func (s *Sharded[V]) GetOrCreate(key string, newValue func() V) V {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if sh.values == nil {
		sh.values = make(map[string]V)
	}
	if v, ok := sh.values[key]; ok {
		return v
	}
	v := newValue()
	sh.values[key] = v
	return v
}

// Get returns the value for key, if present.
func (s *Sharded[V]) Get(key string) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	v, ok := sh.values[key]
	return v, ok
}

// Delete removes the value for key.
func (s *Sharded[V]) Delete(key string) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	delete(sh.values, key)
}

// Len returns the total number of stored keys across all shards.
func (s *Sharded[V]) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.values)
		sh.mu.Unlock()
	}
	return n
}

// Range calls fn for every key/value pair. Each shard is locked while its
// entries are visited; fn must not call back into this map.
func (s *Sharded[V]) Range(fn func(key string, value V) bool) {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for k, v := range sh.values {
			if !fn(k, v) {
				sh.mu.Unlock()
				return
			}
		}
		sh.mu.Unlock()
	}
}

// shardFor returns the shard for the given key.
// Empty keys default to shard 0.
func (s *Sharded[V]) shardFor(key string) *shard[V] {
	if key == "" {
		return &s.shards[0]
	}
	return &s.shards[hashString(key)%shardCount]
}

// hashString provides a simple hash for shard selection.
// Uses djb2-style hashing for good distribution.
func hashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

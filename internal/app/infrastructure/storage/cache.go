package storage

import (
	"github.com/maypok86/otter/v2"
	"iter"
	"sync/atomic"
	"time"
)

// Registry holds values by id. With a non-zero idle TTL an entry that is not
// read or written for that long is evicted and handed to onEvict.
// Explicit Delete and Clear do not call onEvict.
type Registry[T any] struct {
	outer *otter.Cache[string, T]

	ttl     atomic.Int64
	onEvict func(key string, val T)
}

func NewRegistry[T any](capacity int, idleTTL time.Duration, onEvict func(key string, val T)) *Registry[T] {
	r := &Registry[T]{onEvict: onEvict}

	opts := &otter.Options[string, T]{
		InitialCapacity: capacity,
		OnDeletion: func(e otter.DeletionEvent[string, T]) {
			if e.WasEvicted() && r.onEvict != nil {
				r.onEvict(e.Key, e.Value)
			}
		},
	}
	if idleTTL > 0 {
		opts.ExpiryCalculator = otter.ExpiryAccessing[string, T](idleTTL)
	}
	r.outer = otter.Must(opts)
	r.ttl.Store(idleTTL.Nanoseconds())

	return r
}

func (r *Registry[T]) Set(key string, val T) {
	r.outer.Set(key, val)
}

// Get returns the value and counts as an access for idle expiry.
func (r *Registry[T]) Get(key string) (T, bool) {
	return r.outer.GetIfPresent(key)
}

// Delete removes key and returns the removed value.
func (r *Registry[T]) Delete(key string) (T, bool) {
	return r.outer.Invalidate(key)
}

// Drain removes every entry and returns them.
func (r *Registry[T]) Drain() map[string]T {
	var keys []string
	for k := range r.outer.Keys() {
		keys = append(keys, k)
	}

	out := make(map[string]T, len(keys))
	for _, k := range keys {
		if v, ok := r.outer.Invalidate(k); ok {
			out[k] = v
		}
	}
	return out
}

func (r *Registry[T]) All() iter.Seq2[string, T] {
	return r.outer.All()
}

func (r *Registry[T]) Len() int {
	return r.outer.EstimatedSize()
}

func (r *Registry[T]) IdleTTL() time.Duration {
	return time.Duration(r.ttl.Load())
}

// CleanUp runs pending expiry work.
func (r *Registry[T]) CleanUp() {
	r.outer.CleanUp()
}

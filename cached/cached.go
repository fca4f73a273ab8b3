// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cached

import (
	"github.com/apex/log"
)

// DefaultTTL is the lifetime used by New when no WithTTL option is given.
var DefaultTTL = Seconds(60)

// Cached is a single value of type T cached under a fixed key. Get reads
// through to the Store and Set writes through to it; nothing is held in
// memory.
//
// The key must be unique among all Cached values in the process. Two
// accessors with the same key share one entry on disk.
type Cached[T any] struct {
	key          string
	defaultValue T
	ttl          float64
	store        *Store
	log          *log.Entry
}

type accessorOptions struct {
	ttl   TTL
	store *Store
}

// AccessorOption customizes a Cached.
type AccessorOption func(*accessorOptions)

// WithTTL sets the lifetime of values written by Set.
func WithTTL(ttl TTL) AccessorOption {
	return func(o *accessorOptions) { o.ttl = ttl }
}

// WithStore uses s instead of the Shared store.
func WithStore(s *Store) AccessorOption {
	return func(o *accessorOptions) { o.store = s }
}

// New returns an accessor for key that yields defaultValue whenever nothing
// usable is cached.
func New[T any](key string, defaultValue T, opts ...AccessorOption) *Cached[T] {
	o := accessorOptions{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = Shared()
	}

	return &Cached[T]{
		key:          key,
		defaultValue: defaultValue,
		ttl:          o.ttl.Interval(),
		store:        o.store,
		log:          log.WithField("key", key),
	}
}

// Get returns the cached value, or the default value if the entry is missing,
// stale or cannot be decoded as a T. The default is not written back.
func (c *Cached[T]) Get() T {
	c.log.Info("reading value")
	if v, ok := Read[T](c.store, c.key); ok {
		return v
	}
	return c.defaultValue
}

// Set caches value for the accessor's TTL. Write failures are not reported.
func (c *Cached[T]) Set(value T) {
	c.log.Info("writing value")
	c.store.Create(c.key, value, c.ttl)
}

// Key returns the cache key.
func (c *Cached[T]) Key() string {
	return c.key
}

// TTL returns the lifetime in seconds applied by Set.
func (c *Cached[T]) TTL() float64 {
	return c.ttl
}

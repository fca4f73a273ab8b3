// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cached

import (
	"fmt"
	"time"
)

// epoch is the Expires value of entries that never expire.
var epoch = time.Unix(0, 0).UTC()

// Meta describes a cached value. It is stored next to the value in
// <key>.cache.
type Meta struct {
	// Expires is the instant after which the value is stale. The Unix epoch
	// means the value never expires.
	Expires time.Time `json:"expires"`
	// TTL is the requested lifetime in seconds, kept for reference only.
	TTL float64 `json:"ttl"`
	// ValueType is the Go type of the value when it was written. It is only
	// used to warn about keys shared by different types.
	ValueType string `json:"valueType"`
}

// NewMeta builds the metadata for value written at now with a lifetime of ttl
// seconds. A ttl <= 0 never expires. Lifetimes past maxDuration are capped.
func NewMeta(ttl float64, value any, now time.Time) Meta {
	expires := epoch
	if ttl > 0 {
		expires = now.Add(secondsToDuration(ttl))
	}
	return Meta{
		Expires:   expires,
		TTL:       ttl,
		ValueType: typeName(value),
	}
}

// Never reports whether the entry carries the never-expire sentinel. The zero
// time.Time is treated the same way.
func (m Meta) Never() bool {
	return m.Expires.Unix() <= 0
}

// Stale reports whether the entry expired strictly before now.
func (m Meta) Stale(now time.Time) bool {
	return !m.Never() && m.Expires.Before(now)
}

// Remaining returns the time left before the entry goes stale, or 0 for
// entries that never expire or already have.
func (m Meta) Remaining(now time.Time) time.Duration {
	if m.Never() || m.Stale(now) {
		return 0
	}
	return m.Expires.Sub(now)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cached

import (
	"testing"
	"time"
)

type article struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

var present = time.Date(2018, time.April, 26, 17, 0, 0, 0, time.UTC)

// clock is a settable time source for Store.
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestStore returns a store in a fresh temp dir with a clock pinned to
// present.
func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	c := &clock{t: present}
	return NewStore(t.TempDir(), WithClock(c.now)), c
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/cachedgo/cached"
)

// Entry describes a key found in a cache directory. Either file may be
// missing; a value written without metadata, or metadata left behind by a
// failed write, still shows up.
type Entry struct {
	Key       string      `json:"key"`
	ValuePath string      `json:"valuePath,omitempty"`
	MetaPath  string      `json:"metaPath,omitempty"`
	Size      int64       `json:"size"`
	Modified  time.Time   `json:"modified"`
	HasMeta   bool        `json:"hasMeta"`
	Meta      cached.Meta `json:"meta"`
	Stale     bool        `json:"stale"`
}

// EnsureBaseDir creates the store directory. Returns the path and an error if
// creation failed.
func EnsureBaseDir(s *cached.Store) (string, error) {
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil { //nolint:mnd
		return s.Dir(), fmt.Errorf("failed to create cache directory: %w", err)
	}
	return s.Dir(), nil
}

// Keys returns the sorted keys that have a value or metadata file in the
// store directory. A missing directory has no keys.
func Keys(s *cached.Store) ([]string, error) {
	dirents, err := os.ReadDir(s.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	seen := map[string]bool{}
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		name := d.Name()
		for _, ext := range []string{cached.ValueExt, cached.MetaExt} {
			if key, ok := strings.CutSuffix(name, ext); ok && key != "" {
				seen[key] = true
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// List describes every key in the store as of now. Listing never purges.
func List(s *cached.Store, now time.Time) ([]Entry, error) {
	keys, err := Keys(s)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		e := Entry{Key: key}
		if info, err := os.Stat(s.ValuePath(key)); err == nil {
			e.ValuePath = s.ValuePath(key)
			e.Size = info.Size()
			e.Modified = info.ModTime()
		}
		if _, err := os.Stat(s.MetaPath(key)); err == nil {
			e.MetaPath = s.MetaPath(key)
		}
		if m, ok := s.Meta(key); ok {
			e.HasMeta = true
			e.Meta = m
			e.Stale = m.Stale(now)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Sweep runs the read-time staleness check against every key in the store and
// returns the keys it removed. Entries without readable metadata are kept.
func Sweep(s *cached.Store) ([]string, error) {
	keys, err := Keys(s)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, key := range keys {
		if s.Purge(key) {
			log.Debugf("removed stale cache entry %s", key)
			removed = append(removed, key)
		}
	}
	return removed, nil
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cached provides a file-backed key/value cache with TTL expiry and a
// typed read-through/write-through accessor on top of it.
//
// Each key is stored as two sibling files in the cache directory: <key>.json
// holds the JSON encoded value and <key>.cache holds its Meta. Expiry is lazy;
// a stale entry is removed by the next read of its key. Every failure is
// absorbed and surfaces as a cache miss, never as an error.
//
// Values created without an explicit store use Shared, which keeps its files
// in the "cached" subdirectory of os.UserCacheDir (~/.cache/cached on Linux
// unless XDG_CACHE_HOME says otherwise). When no user cache directory can be
// determined the current directory is used instead.
//
//	articles := cached.New("articles", []Article{}, cached.WithTTL(cached.Minutes(30)))
//	list := articles.Get()
//	articles.Set(append(list, Article{Title: "a"}))
package cached

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/cachedgo/cached"
)

var present = time.Date(2018, time.April, 26, 17, 0, 0, 0, time.UTC)

func seed(t *testing.T, now *time.Time) *cached.Store {
	t.Helper()
	s := cached.NewStore(t.TempDir(), cached.WithClock(func() time.Time { return *now }))

	require.True(t, s.Create("forever", []string{"a"}, cached.Infinite().Interval()))
	require.True(t, s.Create("short", 1, cached.Seconds(10).Interval()))
	require.True(t, s.Create("long", map[string]int{"x": 1}, cached.Hours(1).Interval()))
	require.NoError(t, os.WriteFile(s.ValuePath("orphan"), []byte(`"no meta"`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub.json"), 0o755))
	return s
}

func TestKeys(t *testing.T) {
	now := present
	s := seed(t, &now)

	keys, err := Keys(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"forever", "long", "orphan", "short"}, keys)
}

func TestKeys_MissingDir(t *testing.T) {
	s := cached.NewStore(filepath.Join(t.TempDir(), "absent"))
	keys, err := Keys(s)
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestList(t *testing.T) {
	now := present
	s := seed(t, &now)

	now = present.Add(time.Minute)
	entries, err := List(s, now)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byKey := map[string]Entry{}
	for _, e := range entries {
		byKey[e.Key] = e
	}

	assert.True(t, byKey["forever"].HasMeta)
	assert.True(t, byKey["forever"].Meta.Never())
	assert.False(t, byKey["forever"].Stale)
	assert.Equal(t, "[]string", byKey["forever"].Meta.ValueType)
	assert.Equal(t, int64(len(`["a"]`)), byKey["forever"].Size)

	assert.True(t, byKey["short"].Stale)
	assert.False(t, byKey["long"].Stale)

	assert.False(t, byKey["orphan"].HasMeta)
	assert.Empty(t, byKey["orphan"].MetaPath)
	assert.Equal(t, s.ValuePath("orphan"), byKey["orphan"].ValuePath)

	// Listing does not purge.
	assert.FileExists(t, s.ValuePath("short"))
}

func TestSweep(t *testing.T) {
	now := present
	s := seed(t, &now)

	removed, err := Sweep(s)
	require.NoError(t, err)
	assert.Empty(t, removed)

	now = present.Add(2 * time.Hour)
	removed, err = Sweep(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"long", "short"}, removed)

	keys, err := Keys(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"forever", "orphan"}, keys)
}

func TestEnsureBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	got, err := EnsureBaseDir(cached.NewStore(dir))
	assert.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	_, err = EnsureBaseDir(cached.NewStore(filepath.Join(blocker, "x")))
	assert.Error(t, err)
}

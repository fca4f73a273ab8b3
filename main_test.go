// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/cachedgo/internal/config"
)

const argSets = `ls:
  defaults:
    - --sort -meta.ttl
  stale:
    - --filter stale=true
    - --output json
`

func TestMangleArguments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cached.yaml")
	require.NoError(t, os.WriteFile(path, []byte(argSets), 0o600))
	t.Setenv("CACHED_CFG", path)

	config.Config = config.Type{}
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults inserted after command",
			args: []string{"cached", "ls"},
			want: []string{"cached", "ls", "--sort", "-meta.ttl"},
		},
		{
			name: "explicit flags follow defaults",
			args: []string{"cached", "ls", "--sort", "key"},
			want: []string{"cached", "ls", "--sort", "-meta.ttl", "--sort", "key"},
		},
		{
			name: "named set replaces defaults",
			args: []string{"cached", "ls", "--titles", "@stale"},
			want: []string{"cached", "ls", "--titles", "--filter", "stale=true", "--output", "json"},
		},
		{
			name: "unknown set is left as an argument",
			args: []string{"cached", "get", "@home"},
			want: []string{"cached", "get", "@home"},
		},
		{
			name: "no sets for command",
			args: []string{"cached", "purge", "--dir", "/tmp/c"},
			want: []string{"cached", "purge", "--dir", "/tmp/c"},
		},
		{
			name: "help short circuits",
			args: []string{"cached", "ls", "@stale", "-h"},
			want: []string{"cached", "ls", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/cachedgo/cached"
)

// setupTestConfig sets CACHED_CFG to point to a test config file.
// Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("CACHED_CFG", absPath)

	// Reset the global Config to force reload
	Config = Type{}

	return func() {
		Config = Type{}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "/var/cache/cached", cfg.Data["dir"])
				assert.Equal(t, "json", cfg.Data["output"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				ls, ok := cfg.Data["ls"].(map[string]interface{})
				assert.True(t, ok, "ls should be a map")
				assert.Equal(t, "yaml", ls["output"])
				assert.Equal(t, 3, ls["padding"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "test-cache", cfg.Data["name"])
				assert.Equal(t, 2, cfg.Data["padding"])
				assert.Equal(t, true, cfg.Data["color"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
				tags, ok := cfg.Data["tags"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, tags, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				// Empty YAML unmarshals to nil map, which is acceptable
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("CACHED_CFG", "/nonexistent/path/cached.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_FailureDropsPreviousData(t *testing.T) {
	cleanup := setupTestConfig(t, "ttl.yaml")
	defer cleanup()

	_, err := Load()
	require.NoError(t, err)
	Config.Namespace = "set"
	require.NotEmpty(t, Config.Data)

	t.Setenv("CACHED_CFG", "/nonexistent/path/cached.yaml")
	_, err = Load()
	assert.Error(t, err)
	assert.Empty(t, Config.Data)
	assert.Empty(t, Config.Source)
	assert.Equal(t, "set", Config.Namespace)

	got, err := GetTTL("ttl", cached.Minutes(5))
	assert.NoError(t, err)
	assert.Equal(t, cached.Minutes(5), got)
}

func TestLoad_CACHED_CFG_IsDirectory(t *testing.T) {
	t.Setenv("CACHED_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple string value", testFile: "simple.yaml", key: "dir", want: "/var/cache/cached"},
		{name: "nested string value", testFile: "nested.yaml", key: "colors.title", want: "#ff0000"},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []string{"text"}, want: "text"},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-string value", testFile: "mixed-types.yaml", key: "padding", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int value", testFile: "mixed-types.yaml", key: "padding", want: 2},
		{name: "float value converted to int", testFile: "mixed-types.yaml", key: "timeout", want: 30},
		{name: "nested int value", testFile: "nested.yaml", key: "ls.padding", want: 3},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []int{1}, want: 1},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-int value", testFile: "simple.yaml", key: "dir", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			got, err := GetInt(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBool(t *testing.T) {
	cleanup := setupTestConfig(t, "mixed-types.yaml")
	defer cleanup()

	got, err := GetBool("color")
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = GetBool("titles", true)
	assert.NoError(t, err)
	assert.True(t, got)

	_, err = GetBool("name")
	assert.Error(t, err)
}

func TestGetStringSlice(t *testing.T) {
	cleanup := setupTestConfig(t, "nested.yaml")
	defer cleanup()

	got, err := GetStringSlice("ls.stale")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--filter stale=true", "--output json"}, got)

	got, err = GetStringSlice("ls.missing", []string{"--titles"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"--titles"}, got)

	_, err = GetStringSlice("ls.output")
	assert.Error(t, err)

	_, err = GetStringSlice("ls.missing")
	assert.Error(t, err)
}

func TestGetStringSlice_Scalars(t *testing.T) {
	cleanup := setupTestConfig(t, "mixed-types.yaml")
	defer cleanup()

	got, err := GetStringSlice("tags")
	assert.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestGetTTL(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		want      cached.TTL
		wantErr   bool
	}{
		{name: "bare number is seconds", want: cached.Seconds(90)},
		{name: "namespaced infinite", namespace: "set", want: cached.Infinite()},
		{name: "namespaced months", namespace: "get", want: cached.Months(2)},
		{name: "namespace without ttl falls back", namespace: "ls", want: cached.Seconds(90)},
		{name: "invalid spec", namespace: "bad", wantErr: true},
		{name: "wrong type", namespace: "list", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, "ttl.yaml")
			defer cleanup()

			_, err := Load()
			require.NoError(t, err)
			Config.Namespace = tt.namespace

			got, err := GetTTL("ttl")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetTTL_Default(t *testing.T) {
	cleanup := setupTestConfig(t, "simple.yaml")
	defer cleanup()

	got, err := GetTTL("ttl", cached.Minutes(5))
	assert.NoError(t, err)
	assert.Equal(t, cached.Minutes(5), got)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	cleanup := setupTestConfig(t, "nested.yaml")
	defer cleanup()

	_, err := Load()
	require.NoError(t, err)

	Config.Namespace = "ls"

	val, err := Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "yaml", val)

	// Keys outside the namespace still resolve.
	val, err = Config.get("colors.even")
	assert.NoError(t, err)
	assert.Equal(t, "#ffffff", val)

	Config.Namespace = "get"
	_, err = Config.get("output")
	assert.Error(t, err)
}

func TestConfig_LazyLoad(t *testing.T) {
	cleanup := setupTestConfig(t, "simple.yaml")
	defer cleanup()

	// Don't explicitly call Load(), just use GetString
	val, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "json", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

const entries = `[
	{"key": "articles", "size": 120, "stale": false, "hasMeta": true,
	 "meta": {"ttl": 1800, "valueType": "[]main.Article"}, "tags": ["news", "web"]},
	{"key": "avatar-42", "size": 9000, "stale": true, "hasMeta": true,
	 "meta": {"ttl": 60, "valueType": "[]uint8"}, "tags": []},
	{"key": "orphan", "size": 4, "stale": false, "hasMeta": false,
	 "meta": {"ttl": 0, "valueType": ""}, "note": null}
]`

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{name: "empty spec", spec: ""},
		{
			name: "single exact match",
			spec: "key=articles",
			want: []Filter{{Key: "key", Operand: "=", Target: "articles"}},
		},
		{
			name: "negated prefix",
			spec: "key!^avatar-",
			want: []Filter{{Key: "key", Operand: "^", Target: "avatar-", Negate: true}},
		},
		{
			name: "nested path and numeric",
			spec: "meta.valueType/^\\[\\],size>100",
			want: []Filter{
				{Key: "meta.valueType", Operand: "/", Target: "^\\[\\]"},
				{Key: "size", Operand: ">", Target: "100"},
			},
		},
		{
			name: "invalid entries are dropped",
			spec: "key=articles,garbage",
			want: []Filter{{Key: "key", Operand: "=", Target: "articles"}},
		},
		{
			name:      "custom delimiter",
			spec:      "key^a;stale=false",
			delimiter: ";",
			want: []Filter{
				{Key: "key", Operand: "^", Target: "a"},
				{Key: "stale", Operand: "=", Target: "false"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("CACHED_FILTER_DELIM", tt.delimiter)
			}
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{"exact", "articles", Filter{Operand: "=", Target: "articles"}, true},
		{"negated exact", "articles", Filter{Operand: "=", Target: "articles", Negate: true}, false},
		{"case-insensitive", "Articles", Filter{Operand: "~", Target: "ARTICLES"}, true},
		{"prefix", "avatar-42", Filter{Operand: "^", Target: "avatar"}, true},
		{"contains", "avatar-42", Filter{Operand: "@", Target: "-4"}, true},
		{"greater", "b", Filter{Operand: ">", Target: "a"}, true},
		{"less", "b", Filter{Operand: "<", Target: "a"}, false},
		{"regex", "avatar-42", Filter{Operand: "/", Target: `-\d+$`}, true},
		{"bad regex", "x", Filter{Operand: "/", Target: "("}, false},
		{"unknown operand", "x", Filter{Operand: "%", Target: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	assert.True(t, checkNumericOperand(60, Filter{Operand: "=", Target: "60"}))
	assert.True(t, checkNumericOperand(60, Filter{Operand: "=", Target: "61", Negate: true}))
	assert.True(t, checkNumericOperand(1800, Filter{Operand: ">", Target: " 60 "}))
	assert.False(t, checkNumericOperand(1800, Filter{Operand: "<", Target: "60"}))
	assert.False(t, checkNumericOperand(1, Filter{Operand: "=", Target: "one"}))
	assert.False(t, checkNumericOperand(1, Filter{Operand: "^", Target: "1"}))
}

func TestCheckContainsOperand(t *testing.T) {
	assert.True(t, checkContainsOperand([]any{"news", "web"}, Filter{Operand: "@", Target: "web"}))
	assert.True(t, checkContainsOperand([]any{"news"}, Filter{Operand: "@", Target: "web", Negate: true}))
	assert.True(t, checkContainsOperand(map[string]any{"ttl": 1.0}, Filter{Operand: "@", Target: "ttl"}))
	assert.False(t, checkContainsOperand(map[string]any{}, Filter{Operand: "@", Target: "ttl"}))
	assert.False(t, checkContainsOperand(42.0, Filter{Operand: "@", Target: "4"}))
}

func TestApplyFilters(t *testing.T) {
	row := gjson.Parse(entries).Array()[0]

	tests := []struct {
		name    string
		filters []Filter
		want    bool
	}{
		{name: "no filters", want: true},
		{name: "string match", filters: []Filter{{Key: "key", Operand: "=", Target: "articles"}}, want: true},
		{name: "string miss", filters: []Filter{{Key: "key", Operand: "=", Target: "other"}}, want: false},
		{name: "bool", filters: []Filter{{Key: "stale", Operand: "=", Target: "false"}}, want: true},
		{name: "number", filters: []Filter{{Key: "meta.ttl", Operand: ">", Target: "60"}}, want: true},
		{name: "nested string", filters: []Filter{{Key: "meta.valueType", Operand: "@", Target: "Article"}}, want: true},
		{name: "array contains", filters: []Filter{{Key: "tags", Operand: "@", Target: "news"}}, want: true},
		{name: "missing key is skipped", filters: []Filter{{Key: "nope", Operand: "=", Target: "x"}}, want: true},
		{
			name: "all must match",
			filters: []Filter{
				{Key: "key", Operand: "^", Target: "art"},
				{Key: "size", Operand: "<", Target: "100"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyFilters(row, tt.filters))
		})
	}
}

func TestApplyFilters_NullFails(t *testing.T) {
	row := gjson.Parse(entries).Array()[2]
	assert.False(t, applyFilters(row, []Filter{{Key: "note", Operand: "=", Target: "x"}}))
}

func TestFilterDataset(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantKeys []string
	}{
		{name: "no filters", spec: "", wantKeys: []string{"articles", "avatar-42", "orphan"}},
		{name: "stale only", spec: "stale=true", wantKeys: []string{"avatar-42"}},
		{name: "with meta and small", spec: "hasMeta=true,size<1000", wantKeys: []string{"articles"}},
		{name: "negated prefix", spec: "key!^a", wantKeys: []string{"orphan"}},
		{name: "no matches", spec: "key=none", wantKeys: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(gjson.Parse(entries), tt.spec)
			var keys []string
			for _, r := range got {
				keys = append(keys, r.Get("key").String())
			}
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

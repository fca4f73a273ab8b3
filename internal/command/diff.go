// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// diffValues renders the change from prev to next as an annotated listing.
// Objects and arrays are compared structurally. Anything else, or a change of
// shape, shows as a whole-value replacement. An empty string means no change.
func diffValues(prev, next []byte, color bool) (string, error) {
	if len(prev) == 0 {
		return replacement(nil, next), nil
	}

	var left, right interface{}
	if err := json.Unmarshal(prev, &left); err != nil {
		return "", fmt.Errorf("failed to decode previous value: %w", err)
	}
	if err := json.Unmarshal(next, &right); err != nil {
		return "", fmt.Errorf("failed to decode new value: %w", err)
	}

	differ := gojsondiff.New()

	var d gojsondiff.Diff
	switch l := left.(type) {
	case map[string]interface{}:
		if r, ok := right.(map[string]interface{}); ok {
			d = differ.CompareObjects(l, r)
		}
	case []interface{}:
		if r, ok := right.([]interface{}); ok {
			d = differ.CompareArrays(l, r)
		}
	}

	if d == nil {
		if reflect.DeepEqual(left, right) {
			return "", nil
		}
		return replacement(prev, next), nil
	}

	if !d.Modified() {
		return "", nil
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	})
	return f.Format(d)
}

// replacement shows prev removed and next added, each compacted to one line.
func replacement(prev, next []byte) string {
	var s string
	if len(prev) > 0 {
		s = "-" + compact(prev) + "\n"
	}
	return s + "+" + compact(next) + "\n"
}

func compact(b []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return string(bytes.TrimSpace(b))
	}
	return buf.String()
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cached

import (
	"encoding/json"

	"github.com/apex/log"
)

// Encode returns the JSON encoding of v. Values that cannot be encoded report
// false instead of an error.
func Encode(v any) ([]byte, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Debugf("failed to encode %T", v)
		return nil, false
	}
	return b, true
}

// Decode decodes b into a new T.
func Decode[T any](b []byte) (T, bool) {
	var v T
	if !DecodeInto(b, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

// DecodeInto decodes b into target, which must be a non-nil pointer. Empty or
// malformed input reports false and target should be considered garbage.
func DecodeInto(b []byte, target any) bool {
	if len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, target); err != nil {
		log.WithError(err).Debugf("failed to decode into %T", target)
		return false
	}
	return true
}

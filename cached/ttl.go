// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cached

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTTL is returned by ParseTTL for specs it does not understand.
var ErrInvalidTTL = errors.New("invalid ttl")

type unit int

const (
	unitInfinite unit = iota
	unitSeconds
	unitMinutes
	unitHours
	unitDays
	unitWeeks
	unitMonths
)

// seconds per unit. A month is four weeks, not a calendar month.
var perUnit = map[unit]int{
	unitInfinite: 0,
	unitSeconds:  1,
	unitMinutes:  60,
	unitHours:    60 * 60,
	unitDays:     60 * 60 * 24,
	unitWeeks:    60 * 60 * 24 * 7,
	unitMonths:   60 * 60 * 24 * 7 * 4,
}

var unitSuffix = map[unit]string{
	unitSeconds: "s",
	unitMinutes: "m",
	unitHours:   "h",
	unitDays:    "d",
	unitWeeks:   "w",
	unitMonths:  "mo",
}

// TTL is a symbolic cache lifetime. The zero value is Infinite.
type TTL struct {
	unit unit
	n    int
}

// Infinite never expires. Its Interval is 0.
func Infinite() TTL { return TTL{} }

// Seconds returns a TTL of n seconds.
func Seconds(n int) TTL { return TTL{unitSeconds, n} }

// Minutes returns a TTL of n minutes.
func Minutes(n int) TTL { return TTL{unitMinutes, n} }

// Hours returns a TTL of n hours.
func Hours(n int) TTL { return TTL{unitHours, n} }

// Days returns a TTL of n days.
func Days(n int) TTL { return TTL{unitDays, n} }

// Weeks returns a TTL of n weeks.
func Weeks(n int) TTL { return TTL{unitWeeks, n} }

// Months returns a TTL of n months of 28 days each.
func Months(n int) TTL { return TTL{unitMonths, n} }

// Interval returns the lifetime in seconds. Infinite reports 0, which the
// store treats as never expire.
func (t TTL) Interval() float64 {
	return float64(t.n * perUnit[t.unit])
}

// Duration returns Interval as a time.Duration, capped at the longest
// duration representable (about 292 years).
func (t TTL) Duration() time.Duration {
	return secondsToDuration(t.Interval())
}

// maxDuration is the cap applied to lifetimes that do not fit a Duration.
const maxDuration = time.Duration(math.MaxInt64)

func secondsToDuration(seconds float64) time.Duration {
	ns := seconds * float64(time.Second)
	if ns >= float64(math.MaxInt64) {
		return maxDuration
	}
	return time.Duration(ns)
}

// IsInfinite reports whether t was built with Infinite.
func (t TTL) IsInfinite() bool {
	return t.unit == unitInfinite
}

func (t TTL) String() string {
	if t.IsInfinite() {
		return "infinite"
	}
	return strconv.Itoa(t.n) + unitSuffix[t.unit]
}

// ParseTTL parses the String form of a TTL. "infinite", "inf" and "never"
// map to Infinite and a bare number is taken as seconds.
func ParseTTL(s string) (TTL, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	switch spec {
	case "infinite", "inf", "never":
		return Infinite(), nil
	case "":
		return TTL{}, fmt.Errorf("empty spec: %w", ErrInvalidTTL)
	}

	// Order matters, "mo" must be tried before "m".
	for _, u := range []unit{unitMonths, unitSeconds, unitMinutes, unitHours, unitDays, unitWeeks} {
		if num, ok := strings.CutSuffix(spec, unitSuffix[u]); ok {
			return parseCount(s, num, u)
		}
	}
	return parseCount(s, spec, unitSeconds)
}

func parseCount(orig, num string, u unit) (TTL, error) {
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return TTL{}, fmt.Errorf("%q: %w", orig, ErrInvalidTTL)
	}
	return TTL{u, n}, nil
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// cachedgo is the main package for the cached command line tool. It wires the
// CLI around the cached library, delegates to internal packages, and serves as
// the entry point.
package main

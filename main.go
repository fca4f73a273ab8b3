// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/cachedgo/cached"
	"github.com/staranto/cachedgo/internal/cacheutil"
	"github.com/staranto/cachedgo/internal/command"
	"github.com/staranto/cachedgo/internal/config"
	mylog "github.com/staranto/cachedgo/internal/log"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(command.Version)
			return 0
		}
	}

	// Best-effort: pre-create the default cache directory.
	dir := cached.DefaultDir()
	if d, ok := os.LookupEnv("CACHED_DIR"); ok && d != "" {
		dir = d
	}
	if _, err := cacheutil.EnsureBaseDir(cached.NewStore(dir)); err != nil {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands argument sets from the config file. An @name
// argument is replaced by the list at <command>.<name>. Without one, the
// <command>.defaults list, if any, is inserted right after the command so
// explicit flags still win.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	idx := 2
	set := "defaults"
	rest := append([]string{}, args[2:]...)

	// See if there is a configured @set. If so, that becomes the insertion
	// point and the @set entry is removed from args. An @word with no matching
	// set is left alone since it may be a key.
	for i, a := range rest {
		if !strings.HasPrefix(a, "@") || len(a) == 1 {
			continue
		}
		if _, err := config.GetStringSlice(args[1] + "." + a[1:]); err == nil {
			set = a[1:]
			idx += i
			rest = append(rest[:i], rest[i+1:]...)
			break
		}
	}

	args = append(preamble, rest...)

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		parts := strings.Fields(arg)
		args = append(args[:idx], append(parts, args[idx:]...)...)
		idx += len(parts)
	}

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, args)
	return args
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/cached"
	"github.com/staranto/cachedgo/internal/meta"
)

var (
	// ErrNotCached is returned by get when the key holds no live value and no
	// --default was given.
	ErrNotCached = errors.New("not cached")

	// ErrNotDirectory is returned when --dir names something other than a
	// directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidValue is returned when a value or default is not JSON.
	ErrInvalidValue = errors.New("value is not valid JSON")

	// ErrWriteFailed is returned by set when the value file could not be
	// written.
	ErrWriteFailed = errors.New("failed to write value")

	// ErrUsage is returned when a command gets the wrong number of arguments.
	ErrUsage = errors.New("wrong number of arguments")
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr cached <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "cached", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// StoreFor returns the store rooted at the resolved --dir.
func StoreFor(cmd *cli.Command) *cached.Store {
	return cached.NewStore(cmd.String("dir"))
}

// writer returns where command output goes. Tests swap the root writer.
func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// reader returns where "-" arguments are read from.
func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// wantArgs verifies the positional argument count.
func wantArgs(cmd *cli.Command, n int) error {
	if got := cmd.Args().Len(); got != n {
		return fmt.Errorf("%s wants %d, got %d: %w", cmd.Name, n, got, ErrUsage)
	}
	return nil
}

// commandArgs drops the program name from the recorded invocation.
func commandArgs(m meta.Meta) []string {
	if len(m.Args) < 2 {
		return nil
	}
	return m.Args[1:]
}

// CommandBuilder is a helper that constructs a cli.Command for the cache
// subcommands using a consistent pattern. The builder wires metadata, adds the
// tldr flag, applies global flags, and sets up validators.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: append(cb.Flags, append([]cli.Flag{
			newTLDRFlag(),
		}, NewGlobalFlags(cb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			m := GetMeta(c)
			log.WithField("config", m.Config.Source).Debugf("Executing action for %v", commandArgs(m))

			if ShortCircuitTLDR(ctx, c, cb.Name) {
				return nil
			}
			return cb.Action(ctx, c)
		},
	}
}

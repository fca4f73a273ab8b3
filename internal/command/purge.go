// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/internal/cacheutil"
	"github.com/staranto/cachedgo/internal/meta"
	"github.com/staranto/cachedgo/internal/output"
)

// PurgeCommandAction applies the read-time staleness check to every entry in
// the cache directory and reports what it removed.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := wantArgs(cmd, 0); err != nil {
		return err
	}

	removed, err := cacheutil.Sweep(StoreFor(cmd))
	if err != nil {
		return err
	}
	log.WithField("count", len(removed)).Info("purged stale entries")

	w := writer(cmd)
	if format := cmd.String("output"); format != "text" {
		if removed == nil {
			removed = []string{}
		}
		raw, err := json.Marshal(removed)
		if err != nil {
			return fmt.Errorf("failed to marshal keys: %w", err)
		}
		return output.EmitValue(w, raw, format, "")
	}

	for _, key := range removed {
		fmt.Fprintln(w, key)
	}
	fmt.Fprintf(w, "purged %s\n", english.Plural(len(removed), "entry", "entries"))
	return nil
}

func PurgeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "purge",
		Usage:     "remove stale entries",
		UsageText: "cached purge [options]",
		Meta:      meta,
		Action:    PurgeCommandAction,
	}).Build()
}

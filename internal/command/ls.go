// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/internal/cacheutil"
	"github.com/staranto/cachedgo/internal/filters"
	"github.com/staranto/cachedgo/internal/meta"
	"github.com/staranto/cachedgo/internal/output"
)

// LsCommandAction lists the entries in the cache directory. Listing reports
// staleness but never purges.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := wantArgs(cmd, 0); err != nil {
		return err
	}

	now := time.Now()
	entries, err := cacheutil.List(StoreFor(cmd), now)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	rows := filters.FilterDataset(gjson.ParseBytes(raw), cmd.String("filter"))
	output.SortDataset(rows, cmd.String("sort"))
	log.Debugf("ls: %d of %d entries", len(rows), len(entries))

	return output.EmitEntries(writer(cmd), rows, cmd.String("output"), output.TableOptions{
		Color:  cmd.Bool("color"),
		Titles: cmd.Bool("titles"),
		Now:    now,
	})
}

func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ls",
		Usage:     "list cache entries",
		UsageText: "cached ls [options]",
		Meta:      meta,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "comma-separated list of filters to apply to results",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "comma-separated list of attributes to sort the results by",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("ls.sort", altsrc.StringSourcer(cfg.Source)),
				),
				Value: "key",
			},
		},
		Action: LsCommandAction,
	}).Build()
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/cached"
	"github.com/staranto/cachedgo/internal/meta"
	"github.com/staranto/cachedgo/internal/output"
)

// GetCommandAction reads a key through the store, purging it first if it has
// gone stale, and prints the value.
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := wantArgs(cmd, 1); err != nil {
		return err
	}
	key := cmd.Args().First()

	var def json.RawMessage
	if d := cmd.String("default"); d != "" {
		if !json.Valid([]byte(d)) {
			return fmt.Errorf("--default: %w", ErrInvalidValue)
		}
		def = json.RawMessage(d)
	}

	c := cached.New(key, def, cached.WithStore(StoreFor(cmd)))
	value := c.Get()
	log.Debugf("get %s: %d bytes", key, len(value))

	if len(value) == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotCached)
	}

	return output.EmitValue(writer(cmd), value, cmd.String("output"), cmd.String("query"))
}

func GetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "get",
		Usage:     "read a cached value",
		UsageText: "cached get <key> [options]",
		Meta:      meta,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "default",
				Usage: "JSON value to print when the key is not cached",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "gjson path selecting part of the value",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		Action: GetCommandAction,
	}).Build()
}

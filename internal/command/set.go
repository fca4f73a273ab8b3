// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/cached"
	"github.com/staranto/cachedgo/internal/meta"
)

// SetCommandAction writes a JSON value under a key. A value of "-" is read
// from stdin.
func SetCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := wantArgs(cmd, 2); err != nil {
		return err
	}
	key, input := cmd.Args().Get(0), cmd.Args().Get(1)

	value := []byte(input)
	if input == "-" {
		var err error
		if value, err = io.ReadAll(reader(cmd)); err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		value = bytes.TrimSpace(value)
	}
	if !json.Valid(value) {
		return fmt.Errorf("%s: %w", key, ErrInvalidValue)
	}

	ttl, err := cached.ParseTTL(cmd.String("ttl"))
	if err != nil {
		return err
	}

	store := StoreFor(cmd)

	var prev json.RawMessage
	if cmd.Bool("diff") {
		prev, _ = cached.Read[json.RawMessage](store, key)
	}

	log.WithFields(log.Fields{
		"key": key,
		"ttl": ttl.String(),
	}).Debug("set")

	if !store.Create(key, json.RawMessage(value), ttl.Interval()) {
		return fmt.Errorf("%s: %w", key, ErrWriteFailed)
	}

	if cmd.Bool("diff") {
		delta, err := diffValues(prev, value, cmd.Bool("color"))
		if err != nil {
			return err
		}
		fmt.Fprint(writer(cmd), delta)
	}

	return nil
}

func SetCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "set",
		Usage:     "write a value to the cache",
		UsageText: "cached set <key> <json|-> [options]",
		Meta:      meta,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "diff",
				Usage:       "show the difference from the previous value",
				HideDefault: true,
			},
			NewTTLFlag("set"),
		},
		Action: SetCommandAction,
	}).Build()
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/cached"
	"github.com/staranto/cachedgo/internal/meta"
	"github.com/staranto/cachedgo/internal/output"
)

// TTLCommandAction prints the interval in seconds for a TTL spec.
func TTLCommandAction(ctx context.Context, cmd *cli.Command) error {
	if err := wantArgs(cmd, 1); err != nil {
		return err
	}

	ttl, err := cached.ParseTTL(cmd.Args().First())
	if err != nil {
		return err
	}

	w := writer(cmd)
	if format := cmd.String("output"); format != "text" {
		raw, err := json.Marshal(map[string]any{
			"ttl":      ttl.String(),
			"seconds":  ttl.Interval(),
			"infinite": ttl.IsInfinite(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal ttl: %w", err)
		}
		return output.EmitValue(w, raw, format, "")
	}

	fmt.Fprintln(w, strconv.FormatFloat(ttl.Interval(), 'f', -1, 64))
	return nil
}

func TTLCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ttl",
		Usage:     "show the interval for a ttl spec",
		UsageText: "cached ttl <spec> [options]",
		Meta:      meta,
		Action:    TTLCommandAction,
	}).Build()
}

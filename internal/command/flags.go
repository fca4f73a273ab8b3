// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/cached"
	"github.com/staranto/cachedgo/internal/config"
	"github.com/staranto/cachedgo/internal/output"
)

func init() {
	cfg, _ = config.Load()
}

var cfg config.Type

func newTLDRFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the flags shared by every cache command. params[0] is
// the command name and namespaces the config file lookups.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   colorDefault(),
		},
		NewDirFlag(params...),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewDirFlag constructs the "dir" flag naming the cache directory. The
// environment wins over the config file.
func NewDirFlag(params ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "cache directory",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("CACHED_DIR"),
		),
		Value: cached.DefaultDir(),
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
		},
	}

	return NameSpacedValueChainFlagFromConfigFile(params[0], cfg.Source, flag)
}

// NewTTLFlag constructs the "ttl" flag used when writing values. The
// environment wins over the config file.
func NewTTLFlag(params ...string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "ttl",
		Usage: "time to live: infinite or <n>s, <n>m, <n>h, <n>d, <n>w, <n>mo",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("CACHED_TTL"),
		),
		Value: ttlDefault().String(),
		Validator: func(value string) error {
			return FlagValidators(value, TTLValidator)
		},
	}
}

// colorDefault is the config file "color" setting, or whether stdout is a
// terminal when there is none.
func colorDefault() bool {
	tty := output.IsTerminal(os.Stdout)
	color, err := config.GetBool("color", tty)
	if err != nil {
		log.WithError(err).Warn("ignoring color setting in config file")
		return tty
	}
	return color
}

// ttlDefault is the config file "ttl" setting, or cached.DefaultTTL when there
// is none. A bare number is seconds.
func ttlDefault() cached.TTL {
	ttl, err := config.GetTTL("ttl", cached.DefaultTTL)
	if err != nil {
		log.WithError(err).Warn("ignoring ttl setting in config file")
		return cached.DefaultTTL
	}
	return ttl
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas checks if the given executable is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}

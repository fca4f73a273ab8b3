// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/cachedgo/internal/meta"
)

const bashCompletionScript = `# bash completion for cached
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_cached()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "get set ls purge ttl completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--color -c --dir -d --output -o --titles -t --tldr"

    case "$cmd" in
        get)
            local opts="$common --default --query -q"
            ;;
        set)
            local opts="$common --diff --ttl"
            ;;
        ls)
            local opts="$common --filter -f --sort -s"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--dir" || "$prev" == "-d" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

    # Keys are the cache files in --dir, or CACHED_DIR.
    if [[ "$cur" != -* && ( "$cmd" == "get" || "$cmd" == "set" ) ]]; then
        local dir=${CACHED_DIR:-}
        local i
        for (( i=2; i < COMP_CWORD; i++ )); do
            if [[ ${COMP_WORDS[i]} == "--dir" || ${COMP_WORDS[i]} == "-d" ]]; then
                dir=${COMP_WORDS[i+1]}
            fi
        done
        if [[ -n "$dir" && -d "$dir" ]]; then
            local keys
            keys=$(cd "$dir" && ls -1 *.json 2>/dev/null | sed 's/\.json$//')
            COMPREPLY=( $(compgen -W "$keys" -- "$cur") )
            return 0
        fi
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _cached cached
`

const zshCompletionScript = `#compdef cached

_cached() {
  local -a cmds
  cmds=(
    'get:read a cached value'
    'set:write a value to the cache'
    'ls:list cache entries'
    'purge:remove stale entries'
    'ttl:show the interval for a ttl spec'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-d --dir)'{-d,--dir}'[cache directory]:dir:_directories'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'cached commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    get)
      _arguments -C \
        $common \
        '--default[value when not cached]:json' \
        '(-q --query)'{-q,--query}'[gjson path]:path' \
        '1:key'
      ;;
    set)
      _arguments -C \
        $common \
        '--diff[show difference from previous value]' \
        '--ttl[time to live]:ttl:(infinite 30s 5m 1h 1d 1w 1mo)' \
        '1:key' \
        '2:json'
      ;;
    ls)
      _arguments -C \
        $common \
        '(-f --filter)'{-f,--filter}'[filters to apply]:filters' \
        '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
      ;;
    ttl)
      _arguments -C $common '1:spec:(infinite 30s 5m 1h 1d 1w 1mo)'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _cached cached
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}

	w := writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: cached completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "cached completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}

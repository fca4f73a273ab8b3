// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/cachedgo/internal/config"
)

// ErrNoMatch is returned by EmitValue when a query selects nothing.
var ErrNoMatch = errors.New("query matched nothing")

// Formats lists the accepted --output values.
var Formats = []string{"text", "json", "raw", "yaml"}

// TableOptions controls TableWriter.
type TableOptions struct {
	Color  bool
	Titles bool
	Now    time.Time
}

// IsTerminal reports whether f is attached to a terminal. It is the default for
// --color.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// EmitValue writes a cached JSON document to w. query, if set, is a gjson path
// selecting part of the document. text and raw print strings unquoted.
func EmitValue(w io.Writer, raw []byte, format string, query string) error {
	doc := gjson.ParseBytes(raw)
	if query != "" {
		doc = doc.Get(query)
		if !doc.Exists() {
			return fmt.Errorf("%s: %w", query, ErrNoMatch)
		}
	}

	switch format {
	case "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(doc.Raw), "", "  "); err != nil {
			return fmt.Errorf("failed to format value: %w", err)
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	case "yaml":
		out, err := yaml.Marshal(toYAMLValue(doc))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		s := doc.Raw
		if doc.Type == gjson.String {
			s = doc.String()
		}
		_, err := fmt.Fprintln(w, s)
		return err
	}
}

// toYAMLValue converts a gjson result into values yaml.v2 renders in document
// order.
func toYAMLValue(r gjson.Result) interface{} {
	switch {
	case r.IsObject():
		var ms yaml.MapSlice
		r.ForEach(func(k, v gjson.Result) bool {
			ms = append(ms, yaml.MapItem{Key: k.String(), Value: toYAMLValue(v)})
			return true
		})
		return ms
	case r.IsArray():
		items := []interface{}{}
		for _, v := range r.Array() {
			items = append(items, toYAMLValue(v))
		}
		return items
	default:
		return r.Value()
	}
}

// EmitEntries writes entry rows (as produced by cacheutil.List and marshaled to
// JSON) to w in the requested format.
func EmitEntries(w io.Writer, rows []gjson.Result, format string, opts TableOptions) error {
	switch format {
	case "json", "raw":
		parts := make([]string, 0, len(rows))
		for _, r := range rows {
			parts = append(parts, r.Raw)
		}
		doc := "[" + strings.Join(parts, ",") + "]"
		if format == "raw" {
			_, err := fmt.Fprintln(w, doc)
			return err
		}
		return EmitValue(w, []byte(doc), "json", "")
	case "yaml":
		items := make([]interface{}, 0, len(rows))
		for _, r := range rows {
			items = append(items, toYAMLValue(r))
		}
		out, err := yaml.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		TableWriter(rows, opts, w)
		return nil
	}
}

// TableWriter renders entry rows in a tabular form honoring color, titles and
// padding options.
func TableWriter(rows []gjson.Result, opts TableOptions, w io.Writer) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, entryCells(r, now))
	}

	pad, _ := config.GetInt("padding", 1)
	log.Debugf("padding: %v", pad)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers("KEY", "TYPE", "TTL", "EXPIRES", "SIZE", "STALE").BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// entryCells formats one listing row.
func entryCells(r gjson.Result, now time.Time) []string {
	typ, ttl, expires := "-", "-", "-"
	if r.Get("hasMeta").Bool() {
		typ = r.Get("meta.valueType").String()
		ttl = FormatTTL(r.Get("meta.ttl").Float())
		expires = FormatExpires(r.Get("meta.expires").Time(), now)
	}

	size := "-"
	if r.Get("valuePath").String() != "" {
		size = humanize.Bytes(r.Get("size").Uint())
	}

	stale := ""
	if r.Get("stale").Bool() {
		stale = "stale"
	}

	return []string{r.Get("key").String(), typ, ttl, expires, size, stale}
}

// FormatTTL renders a TTL in seconds using the largest unit that divides it
// evenly. 0 or less is infinite.
func FormatTTL(seconds float64) string {
	n := int64(seconds)
	switch {
	case seconds <= 0:
		return "infinite"
	case float64(n) != seconds:
		return fmt.Sprintf("%gs", seconds)
	case n%86400 == 0:
		return fmt.Sprintf("%dd", n/86400)
	case n%3600 == 0:
		return fmt.Sprintf("%dh", n/3600)
	case n%60 == 0:
		return fmt.Sprintf("%dm", n/60)
	}
	return fmt.Sprintf("%ds", n)
}

// FormatExpires renders an expiry relative to now. The Unix epoch and the zero
// time mean never.
func FormatExpires(expires time.Time, now time.Time) string {
	if expires.Unix() <= 0 {
		return "never"
	}
	return humanize.RelTime(expires, now, "ago", "from now")
}

// SortDataset orders rows by a comma-separated list of gjson paths. A leading
// '-' sorts that key descending and a leading '!' compares strings case
// sensitively. Numbers compare numerically.
func SortDataset(rows []gjson.Result, spec string) {
	if spec == "" {
		return
	}

	type sortKey struct {
		path      string
		desc      bool
		sensitive bool
	}

	var keys []sortKey
	for _, part := range strings.Split(spec, ",") {
		k := sortKey{path: strings.TrimSpace(part)}
		for len(k.path) > 0 && (k.path[0] == '-' || k.path[0] == '!') {
			if k.path[0] == '-' {
				k.desc = true
			} else {
				k.sensitive = true
			}
			k.path = k.path[1:]
		}
		if k.path != "" {
			keys = append(keys, k)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compare(rows[i].Get(k.path), rows[j].Get(k.path), k.sensitive)
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b gjson.Result, sensitive bool) int {
	if a.Type == gjson.Number && b.Type == gjson.Number {
		switch {
		case a.Float() < b.Float():
			return -1
		case a.Float() > b.Float():
			return 1
		}
		return 0
	}

	as, bs := a.String(), b.String()
	if !sensitive {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

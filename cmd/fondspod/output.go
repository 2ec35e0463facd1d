package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", formatTable, "Output format: table or json")
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(cmd *cobra.Command, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// nameWidth is the room left for a free-text column once the fixed columns
// are laid out. Names are truncated by display width so CJK text lines up.
func nameWidth(fixedColumns int) int {
	width := getTerminalWidth() - fixedColumns
	if width < 12 {
		width = 12
	}
	return width
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatAgo(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return humanize.Time(*t)
}

func (a *app) yesNo(v bool) string {
	if v {
		return a.tr.T("yes")
	}
	return a.tr.T("no")
}

func (a *app) printf(cmd *cobra.Command, key string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), a.tr.T(key, args...))
}

func (a *app) printTotal(cmd *cobra.Command, n int) {
	fmt.Fprintln(cmd.OutOrStdout(), a.tr.T("total", n))
}

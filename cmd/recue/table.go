package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"recue/internal/catalog"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// titleWidthMax keeps long video titles from pushing the remaining columns
// off the edge of the terminal.
const titleWidthMax = 48

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range header {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		cfg := table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		}
		if i < len(aligns) && aligns[i] == alignRight {
			cfg.Align = text.AlignRight
		}
		if headers[i] == "Title" {
			cfg.WidthMax = titleWidthMax
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// decorateStatus colors terminal output by lifecycle state and leaves piped
// output untouched.
func decorateStatus(status catalog.Status, colorize bool) string {
	label := string(status)
	if !colorize {
		return label
	}
	switch status {
	case catalog.StatusCompleted:
		return text.FgGreen.Sprint(label)
	case catalog.StatusFailed:
		return text.FgRed.Sprint(label)
	case catalog.StatusReview:
		return text.FgYellow.Sprint(label)
	default:
		return label
	}
}

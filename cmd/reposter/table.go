package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

const maxCellWidth = 60

// renderTable lays rows out under headers. Columns listed in rightAligned
// (zero based) are right aligned. Rounded borders are used only when out is a
// terminal so piped output stays plain ASCII.
func renderTable(out io.Writer, headers []string, rows [][]string, rightAligned ...int) string {
	width := len(headers)
	if width == 0 {
		return ""
	}

	tw := table.NewWriter()
	if isTerminal(out) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.Style().Format.Header = text.FormatDefault

	tw.AppendHeader(toRow(headers, width))
	for _, row := range rows {
		tw.AppendRow(toRow(row, width))
	}

	configs := make([]table.ColumnConfig, width)
	for i := range configs {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
			WidthMax:    maxCellWidth,
		}
	}
	for _, col := range rightAligned {
		if col >= 0 && col < width {
			configs[col].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// toRow pads or truncates cells to exactly width columns.
func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// renderTable renders a header and rows in the requested output format:
// a bordered table by default, tab-separated lines for "plain".
func renderTable(w io.Writer, format string, header table.Row, rows []table.Row) {
	if format == "plain" {
		renderPlain(w, rows)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

func renderPlain(w io.Writer, rows []table.Row) {
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, cell := range row {
			parts[i] = fmt.Sprint(cell)
		}
		_, _ = fmt.Fprintln(w, strings.Join(parts, "\t"))
	}
}

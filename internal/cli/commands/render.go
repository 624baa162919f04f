package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/primebrains/sqltools/internal/export"
	"github.com/primebrains/sqltools/pkg/core"
	"golang.org/x/term"
)

// Output modes of the split and history commands.
const (
	OutputAuto     = "auto"
	OutputTable    = "table"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

var outputModes = []string{OutputAuto, OutputTable, OutputMarkdown, OutputJSON}

// resolveOutputMode maps auto to table on a terminal and markdown otherwise.
func resolveOutputMode(mode string, w io.Writer) (string, error) {
	switch mode {
	case "", OutputAuto:
		if isTerminal(w) {
			return OutputTable, nil
		}
		return OutputMarkdown, nil
	case OutputTable, OutputMarkdown, OutputJSON:
		return mode, nil
	}
	return "", fmt.Errorf("unsupported output mode %q (supported: %v)", mode, outputModes)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderRows(w io.Writer, mode string, header []string, rows [][]string) error {
	switch mode {
	case OutputTable:
		renderTable(w, header, rows)
		return nil
	case OutputMarkdown:
		return renderMarkdown(w, header, rows)
	default:
		return fmt.Errorf("unsupported output mode %q", mode)
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// renderMarkdown reuses the markdown exporter so that terminal output and
// exported files escape cells the same way.
func renderMarkdown(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	rs := &core.ResultSet{Columns: header, Rows: make([][]sql.NullString, len(rows))}
	for i, r := range rows {
		rs.Rows[i] = make([]sql.NullString, len(r))
		for j, v := range r {
			rs.Rows[i][j] = sql.NullString{String: v, Valid: true}
		}
	}

	e, err := export.New(export.FormatMarkdown, nil)
	if err != nil {
		return err
	}
	return e.Export(w, rs)
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

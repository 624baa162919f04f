package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/primebrains/sqltools/pkg/core"
)

type markdownExporter struct{}

func (markdownExporter) Export(w io.Writer, rs *core.ResultSet) error {
	if !rs.HasColumns() {
		return nil
	}

	// Header
	if _, err := fmt.Fprintf(w, "| %s |\n", joinCells(rs.Columns)); err != nil {
		return err
	}
	// Separator
	seps := make([]string, len(rs.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | ")); err != nil {
		return err
	}

	// Rows
	for _, row := range rs.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			if v.Valid {
				values[i] = v.String
			} else {
				values[i] = "NULL"
			}
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", joinCells(values)); err != nil {
			return err
		}
	}
	return nil
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func joinCells(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = cellEscaper.Replace(c)
	}
	return strings.Join(out, " | ")
}

package export

import (
	"encoding/csv"
	"io"

	"github.com/primebrains/sqltools/pkg/core"
)

type csvExporter struct{}

// Export writes the header row and then one record per row. Fields are
// quoted only when they need it; NULL is written as an empty field.
func (csvExporter) Export(w io.Writer, rs *core.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(rs.Records()); err != nil {
		return err
	}
	return cw.Error()
}

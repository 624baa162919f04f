package core

import "database/sql"

// ResultSet is the fully materialized result of one statement.
// Every value is carried as text; Valid is false for SQL NULL.
type ResultSet struct {
	Columns []string
	Rows    [][]sql.NullString
}

// HasColumns reports whether the statement produced a tabular result.
func (rs *ResultSet) HasColumns() bool {
	return rs != nil && len(rs.Columns) > 0
}

// Header returns a copy of the column names.
func (rs *ResultSet) Header() []string {
	if rs == nil {
		return nil
	}
	return append([]string(nil), rs.Columns...)
}

// Records returns the rows as plain strings, NULL becoming "".
func (rs *ResultSet) Records() [][]string {
	if rs == nil {
		return nil
	}
	out := make([][]string, len(rs.Rows))
	for i, row := range rs.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			if v.Valid {
				rec[j] = v.String
			}
		}
		out[i] = rec
	}
	return out
}

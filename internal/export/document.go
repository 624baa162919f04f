package export

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/primebrains/sqltools/pkg/core"
	"gopkg.in/yaml.v3"
)

// document is the structured form shared by the yaml and json exporters:
//
//	query_result:
//	  total_rows: 2
//	  columns: [id, name]
//	  rows:
//	    - id: 1
//	      name: alice
//	  generated_at: 2024-01-02T03:04:05Z
type document struct {
	QueryResult queryResult `yaml:"query_result" json:"query_result"`
}

type queryResult struct {
	TotalRows   int      `yaml:"total_rows" json:"total_rows"`
	Columns     []string `yaml:"columns" json:"columns"`
	Rows        []record `yaml:"rows" json:"rows"`
	GeneratedAt string   `yaml:"generated_at" json:"generated_at"`
}

// record is one row keyed by column name, keeping column order.
type record struct {
	cols []string
	row  []sql.NullString
}

func newDocument(rs *core.ResultSet, now time.Time) document {
	rows := make([]record, len(rs.Rows))
	for i, r := range rs.Rows {
		rows[i] = record{cols: rs.Columns, row: r}
	}
	return document{QueryResult: queryResult{
		TotalRows:   len(rs.Rows),
		Columns:     rs.Header(),
		Rows:        rows,
		GeneratedAt: now.Format(time.RFC3339),
	}}
}

// MarshalYAML emits a mapping in column order. Numeric values stay plain so
// they read back as numbers, everything else is a string and NULL is null.
func (r record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, col := range r.cols {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
			yamlValue(r.value(i)))
	}
	return node, nil
}

func (r record) value(i int) sql.NullString {
	if i < len(r.row) {
		return r.row[i]
	}
	return sql.NullString{}
}

func yamlValue(v sql.NullString) *yaml.Node {
	if !v.Valid {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	if _, err := strconv.ParseFloat(v.String, 64); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.String}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.String}
}

// MarshalJSON emits an object in column order with string values.
func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		val := r.value(i)
		if !val.Valid {
			buf.WriteString("null")
			continue
		}
		v, err := json.Marshal(val.String)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type yamlExporter struct {
	clock Clock
}

// Export writes nothing for a result without columns.
func (e yamlExporter) Export(w io.Writer, rs *core.ResultSet) error {
	if !rs.HasColumns() {
		return nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(rs, e.clock())); err != nil {
		return err
	}
	return enc.Close()
}

type jsonExporter struct {
	clock Clock
}

// Export writes nothing for a result without columns.
func (e jsonExporter) Export(w io.Writer, rs *core.ResultSet) error {
	if !rs.HasColumns() {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(rs, e.clock()))
}

// Package export writes query results to files in the supported output
// formats.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatCSV      Format = "csv"
	FormatExcel    Format = "excel"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

var formatAliases = map[string]Format{
	"csv":      FormatCSV,
	"excel":    FormatExcel,
	"xlsx":     FormatExcel,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
	"json":     FormatJSON,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
}

var extensions = map[Format]string{
	FormatCSV:      "csv",
	FormatExcel:    "xlsx",
	FormatYAML:     "yaml",
	FormatJSON:     "json",
	FormatMarkdown: "md",
}

// Formats lists the canonical format names.
func Formats() []Format {
	return []Format{FormatCSV, FormatExcel, FormatYAML, FormatJSON, FormatMarkdown}
}

// ParseFormat resolves a case-insensitive format name or alias.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (supported: csv, excel, yaml, json, markdown)", s)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	return extensions[f]
}

func (f Format) String() string {
	return string(f)
}

// timestampLayout renders yyyyMMdd_HHmmss.
const timestampLayout = "20060102_150405"

// FileName builds the output file name for the index-th statement (1-based)
// of the SQL file named base: <base>_<yyyyMMdd_HHmmss>_<index>.<ext>.
// A trailing ".sql" on base is dropped.
func FileName(base string, ts time.Time, index int, f Format) string {
	if strings.HasSuffix(strings.ToLower(base), ".sql") {
		base = base[:len(base)-len(".sql")]
	}
	return fmt.Sprintf("%s_%s_%d.%s", base, ts.Format(timestampLayout), index, f.Extension())
}

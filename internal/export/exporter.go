package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/primebrains/sqltools/pkg/core"
)

// Exporter serializes one result set.
type Exporter interface {
	Export(w io.Writer, rs *core.ResultSet) error
}

// Clock returns the current time. Document formats stamp it into their output.
type Clock func() time.Time

// New returns the exporter for f. A nil clock uses time.Now.
func New(f Format, clock Clock) (Exporter, error) {
	if clock == nil {
		clock = time.Now
	}
	switch f {
	case FormatCSV:
		return csvExporter{}, nil
	case FormatExcel:
		return excelExporter{}, nil
	case FormatYAML:
		return yamlExporter{clock: clock}, nil
	case FormatJSON:
		return jsonExporter{clock: clock}, nil
	case FormatMarkdown:
		return markdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", string(f))
	}
}

// WriteFile exports rs into dir/name and returns the path written.
// dir must exist. A partially written file is removed on failure.
func WriteFile(dir, name string, e Exporter, rs *core.ResultSet) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := e.Export(f, rs); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to export %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
